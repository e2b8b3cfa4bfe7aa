package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/pkg/msb"
)

// ErrInvalidVersion is returned for a version query without digits.
var ErrInvalidVersion = errors.New("catalog: invalid version")

// VersionQuery matches capture builds, e.g. "95" or "!95".
type VersionQuery struct {
	Build  uint32
	Negate bool
}

// ParseVersionQuery parses a query. A leading "!" negates it and every
// other non-digit is ignored.
func ParseVersionQuery(s string) (VersionQuery, error) {
	q := VersionQuery{Negate: strings.HasPrefix(s, "!")}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return q, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	build, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return q, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	q.Build = uint32(build)
	return q, nil
}

// Match reports whether build satisfies the query. Build 0 never matches.
func (q VersionQuery) Match(build uint32) bool {
	if build == 0 {
		return false
	}
	return (build == q.Build) != q.Negate
}

func (q VersionQuery) String() string {
	if q.Negate {
		return fmt.Sprintf("!%d", q.Build)
	}
	return strconv.FormatUint(uint64(q.Build), 10)
}

// VersionMatch is a file whose build matched a query.
type VersionMatch struct {
	Path  string
	Build uint32
}

// FindVersions returns the files whose metadata build matches q.
func FindVersions(ctx context.Context, files []string, q VersionQuery) ([]VersionMatch, []FileError, error) {
	var matches []VersionMatch
	var failed []FileError

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return matches, failed, err
		}

		reader, err := msb.Open(path)
		if err != nil {
			log().Warn("reading metadata", zap.String("path", path), zap.Error(err))
			failed = append(failed, FileError{Path: path, Err: err})
			continue
		}

		build := reader.Metadata().Build
		if q.Match(build) {
			matches = append(matches, VersionMatch{Path: path, Build: build})
		}
	}
	return matches, failed, nil
}
