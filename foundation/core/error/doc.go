// Package error provides the coded error type shared by the owsh shell engine
// and its collaborators.
//
// Package: error
// Title: owsh Error Handling
// Description: Structured errors with a classification code, a severity,
//              free-form details and an optional cause. The shell engine
//              classifies every command outcome through these codes:
//              argument errors, execution errors and the quit signal.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Shell taxonomy codes, errors.As based lookups
//
// Usage:
//   import mdwerror "github.com/msto63/owsh/foundation/core/error"
//
//   err := mdwerror.New("Invalid command \"frob\"").
//     WithCode(mdwerror.CodeShellArgument).
//     WithDetail("word", "frob")
//
//   if mdwerror.IsArgument(err) {
//     // malformed input, nothing ran
//   }
package error
