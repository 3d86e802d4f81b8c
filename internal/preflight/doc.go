// Package preflight provides readiness checks for the external tools and
// filesystem paths the alignment pipeline depends on.
//
// These checks run in two contexts:
//   - The align command calls RunAll before a run. If any check fails, the
//     run aborts instead of failing entry by entry against a broken setup.
//   - The CLI "phonalign status" command uses individual check functions
//     (CheckElevenLabs, CheckDirectoryAccess) to display service health.
//
// Checks gated on optional features are skipped when the feature is not
// configured.
package preflight
