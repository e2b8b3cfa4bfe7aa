package catalog

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// FindDuplicates groups files by content hash and returns the groups with
// more than one file. Groups and the paths inside them keep the order of
// files.
func FindDuplicates(ctx context.Context, files []string) ([][]string, []FileError, error) {
	byHash := make(map[string][]string)
	var order []string
	var failed []FileError

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, failed, err
		}

		hash, err := HashFile(path)
		if err != nil {
			log().Warn("hashing file", zap.String("path", path), zap.Error(err))
			failed = append(failed, FileError{Path: path, Err: err})
			continue
		}
		if _, seen := byHash[hash]; !seen {
			order = append(order, hash)
		}
		byHash[hash] = append(byHash[hash], path)
		log().Debug("hashed", zap.Int("n", i+1), zap.Int("total", len(files)), zap.String("path", path))
	}

	var groups [][]string
	for _, hash := range order {
		if paths := byHash[hash]; len(paths) > 1 {
			groups = append(groups, paths)
		}
	}
	return groups, failed, nil
}

// RemoveDuplicates deletes every file of each group except the first and
// returns the removed paths. It stops at the first failure.
func RemoveDuplicates(groups [][]string) ([]string, error) {
	var removed []string
	for _, group := range groups {
		for _, path := range group[1:] {
			if err := os.Remove(path); err != nil {
				return removed, err
			}
			log().Info("deleted duplicate", zap.String("path", path), zap.String("kept", group[0]))
			removed = append(removed, path)
		}
	}
	return removed, nil
}
