// Package media wraps ffmpeg for the two audio operations the pipeline
// needs: converting source audio into aligner-ready WAV files and cutting
// per-phoneme clips out of them.
package media
