package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLicenseNoHeader(t *testing.T) {
	t.Parallel()

	body := "pragma solidity 0.8.0;\ncontract A {}\n"
	got := NormalizeLicense(body)

	require.True(t, strings.HasPrefix(got, License+"\n\n"))
	require.Contains(t, got, "contract A {}")
}

func TestNormalizeLicenseManyHeaders(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		"// SPDX-License-Identifier: MIT",
		"pragma solidity 0.8.0;",
		"// spdx-license-identifier: Apache-2.0",
		"contract A {}",
		"// SPDX-License-Identifier: GPL-3.0-or-later",
	}, "\n")

	got := NormalizeLicense(body)

	lines := strings.Split(got, "\n")
	require.Equal(t, License, lines[0])
	require.Equal(t, "", lines[1])
	require.Len(t, LicenseLine.FindAllString(got, -1), 1) // the canonical header only
}

func TestNormalizeLicenseIdempotent(t *testing.T) {
	t.Parallel()

	body := "// SPDX-License-Identifier: MIT\ncontract A {}\n"
	once := NormalizeLicense(body)
	require.Equal(t, once, NormalizeLicense(once))
}

func TestNormalizeLicenseKeepsStringLiterals(t *testing.T) {
	t.Parallel()

	body := `contract A { string s = "// SPDX-License-Identifier: MIT"; }`
	got := NormalizeLicense(body)
	require.Contains(t, got, `string s = "// SPDX-License-Identifier: MIT";`)
}

func TestPinPragma(t *testing.T) {
	t.Parallel()

	body := "pragma solidity ^0.8.0;\ncontract A {}\npragma solidity ^0.8.0;\n"
	got := PinPragma(body)

	require.NotContains(t, got, "^0.8.0")
	require.Equal(t, 2, strings.Count(got, "pragma solidity 0.8.0;"))
}

func TestPinPragmaLeavesOtherVersions(t *testing.T) {
	t.Parallel()

	body := "pragma solidity ^0.8.19;\npragma solidity ^0.7.6;\n"
	require.Equal(t, body, PinPragma(body))
}
