package version

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const Version = "0.3.0"

// Stamped with -ldflags "-X github.com/standardbeagle/codeaudit/internal/version.GitCommit=...".
// Left empty, they fall back to the VCS settings recorded by the Go toolchain.
var (
	GitCommit string
	BuildDate string
)

type buildStamp struct {
	commit string
	date   string
	id     string
}

var (
	stamp     buildStamp
	stampOnce sync.Once
)

func loadStamp() buildStamp {
	stampOnce.Do(func() {
		stamp = readStamp(debug.ReadBuildInfo())
	})
	return stamp
}

func readStamp(info *debug.BuildInfo, ok bool) buildStamp {
	s := buildStamp{commit: GitCommit, date: BuildDate}
	if !ok {
		s.id = Version + "-" + orDefault(s.commit, "unknown")
		return withDefaults(s)
	}

	h := xxhash.New()
	_, _ = h.WriteString(info.GoVersion)
	_, _ = h.WriteString(info.Main.Path)
	_, _ = h.WriteString(info.Main.Version)
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			if s.commit == "" {
				s.commit = shortRevision(kv.Value)
			}
		case "vcs.time":
			if s.date == "" {
				s.date = kv.Value
			}
		case "vcs.modified":
		default:
			continue
		}
		_, _ = h.WriteString(kv.Key)
		_, _ = h.WriteString(kv.Value)
	}
	s.id = fmt.Sprintf("%016x", h.Sum64())
	return withDefaults(s)
}

func withDefaults(s buildStamp) buildStamp {
	s.commit = orDefault(s.commit, "unknown")
	s.date = orDefault(s.date, "development")
	return s
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// FullInfo is the line printed by `codeaudit version`
func FullInfo() string {
	s := loadStamp()
	return "codeaudit " + Version + " (commit: " + s.commit + ", built: " + s.date + ")"
}

// BuildID fingerprints the binary: Go version, module path and version, VCS state
func BuildID() string {
	return loadStamp().id
}
