// Package elevenlabs talks to the ElevenLabs text-to-speech API, using the
// with-timestamps endpoint so character timing comes back with the audio.
package elevenlabs
