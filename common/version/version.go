package version

import (
	"errors"
	"regexp"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/NilFoundation/solbuild/common"
)

type versionInfo struct {
	GitTag      string
	GitRevCount string
	GitCommit   string
}

var (
	// This random string will be binary-patched to contain real version.
	// This is done in order to not stamp the commit hash on build and
	// thus not needlessly thrash the cache. Instead, this string will
	// be replaced on package-build time.
	versionMagic          = "xA91kTfwqo0ZrJcNuEl2cbVSshPMhgDWkQoSeGHa"
	versionInfoCache      versionInfo
	versionInfoCacheMutex sync.Mutex
)

const (
	unknownRevision string = "0"
	unknownVersion  string = "<unknown>"
)

func GetVersionInfo() versionInfo {
	versionInfoCacheMutex.Lock()
	defer versionInfoCacheMutex.Unlock()
	if versionInfoCache.GitRevCount == "" {
		// If the versionMagic string has been patched with something that looks like a version
		// then use it. Otherwise initialize the version with some sane default.
		re := regexp.MustCompile(`(\d+\.\d+\.\d+)-(\d+)-([a-f0-9]+)`)
		matches := re.FindStringSubmatch(versionMagic)

		if len(matches) == 0 {
			if _, gitCommit, err := ParseBuildInfo(); err == nil {
				versionInfoCache = versionInfo{GitTag: "0.1.0", GitRevCount: "1", GitCommit: gitCommit}
			} else {
				versionInfoCache = versionInfo{GitTag: "0.1.0", GitRevCount: "1", GitCommit: unknownVersion}
			}
		} else {
			versionInfoCache = versionInfo{GitTag: matches[1], GitRevCount: matches[2], GitCommit: matches[3]}
		}
	}
	return versionInfoCache
}

func ParseBuildInfo() (string, string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", errors.New("failed to read build info")
	}
	var gitHash string
	var time string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			gitHash = s.Value
		case "vcs.time":
			time = s.Value[:10]
		}
	}

	return time, gitHash, nil
}

func GetGitRevCount() string {
	if GetVersionInfo().GitRevCount == "" {
		return unknownRevision
	}
	return GetVersionInfo().GitRevCount
}

func BuildVersionString(appTitle string) string {
	ver := GetVersionInfo().GitTag
	if ver == "" {
		ver = unknownVersion
	}

	versionMsg, err := common.ParseTemplate(versionTmpl, map[string]any{
		"Title":    appTitle,
		"Version":  ver,
		"OS":       runtime.GOOS,
		"Arch":     runtime.GOARCH,
		"Commit":   GetVersionInfo().GitCommit,
		"Revision": GetGitRevCount(),
	})
	if err != nil {
		panic(err)
	}
	return versionMsg
}

var versionTmpl = `{{ .Title }}
 Version:	{{ .Version }}
 OS/Arch:	{{ .OS }}/{{ .Arch }}
 Git commit:	{{ .Commit }}
 Revision:	{{ .Revision }}`
