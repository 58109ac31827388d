package rewrite

import (
	"regexp"
)

// License is the canonical header every produced contract starts with.
const License = "// SPDX-License-Identifier: GPL-3.0-or-later"

// LicenseLine matches a whole license-identifier comment line,
// case-insensitively. A flattened file inlines one such line from every
// source it merged, so any number of matches may appear.
// Anchoring at line start keeps SPDX mentions inside string literals intact.
var LicenseLine = regexp.MustCompile(`(?im)^//\s*SPDX.*$`)

// Hardhat projects pin the toolchain to 0.8.0, so only the matching floating
// declaration gets rewritten. Other versions pass through untouched.
var floatingPragma = regexp.MustCompile(`pragma solidity \^0\.8\.0`)

const pinnedPragma = "pragma solidity 0.8.0"

// NormalizeLicense strips every license-identifier line from body and
// prepends the canonical header followed by a blank line. The operation is
// idempotent: the canonical header itself matches LicenseLine and is folded
// back into the single leading one on a rerun.
func NormalizeLicense(body string) string {
	return License + "\n\n" + LicenseLine.ReplaceAllString(body, "")
}

// PinPragma replaces every floating `pragma solidity ^0.8.0` declaration
// with its pinned form.
func PinPragma(body string) string {
	return floatingPragma.ReplaceAllString(body, pinnedPragma)
}
