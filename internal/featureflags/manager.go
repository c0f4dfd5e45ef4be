// Package featureflags evaluates runtime toggles configured through FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// CommentLikeFollowGate limits comment_like pushes to comment authors who
// follow the liker.
const CommentLikeFollowGate = "comment_like_follow_gate"

// Defaults apply to known flags absent from the configured list.
var Defaults = map[string]string{
	CommentLikeFollowGate: "on",
}

// Flags is a parsed set of key=value toggles, for example
// "comment_like_follow_gate=on,ranked_comments=25%".
type Flags struct {
	values map[string]string
}

// Parse reads a comma-separated key=value list. Malformed entries are skipped
// and known flags fall back to Defaults.
func Parse(raw string) *Flags {
	values := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		values[k] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		values[key] = value
	}

	return &Flags{values: values}
}

// Enabled reports whether name is on for userID. Values may be on/off,
// true/false, 1/0, or an N% rollout bucketed deterministically per user.
// Unknown flags are off.
func (f *Flags) Enabled(name string, userID uint) bool {
	if f == nil {
		return false
	}
	value, ok := f.values[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil, pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return bucket(name, userID) < pct
}

// Raw returns a copy of the configured values, defaults included.
func (f *Flags) Raw() map[string]string {
	if f == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every configured flag for userID.
func (f *Flags) Snapshot(userID uint) map[string]bool {
	if f == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(f.values))
	for name := range f.values {
		out[name] = f.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
