package local

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-openapi/swag"

	"github.com/additiveai/lakeFS/api"
)

type localFile struct {
	path  string
	size  int64
	mtime int64
}

// DiffLocal compares the files under localPath against a remote object
// listing. A file present only locally is added, an object present only
// remotely is removed, and a path present on both sides is modified when
// size or modification time differ. Changes come back ordered by path.
func DiffLocal(remote []api.ObjectStats, localPath string) ([]*Change, error) {
	locals, err := listLocalFiles(localPath)
	if err != nil {
		return nil, err
	}

	remotes := make([]api.ObjectStats, len(remote))
	copy(remotes, remote)
	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Path < remotes[j].Path
	})

	changes := make([]*Change, 0)
	i, j := 0, 0
	for i < len(locals) && j < len(remotes) {
		switch strings.Compare(locals[i].path, remotes[j].Path) {
		case -1:
			changes = append(changes, &Change{Path: locals[i].path, Type: ChangeTypeAdded})
			i++
		case 1:
			changes = append(changes, &Change{Path: remotes[j].Path, Type: ChangeTypeRemoved})
			j++
		default:
			if locals[i].size != swag.Int64Value(remotes[j].SizeBytes) || locals[i].mtime != remotes[j].Mtime {
				changes = append(changes, &Change{Path: locals[i].path, Type: ChangeTypeModified})
			}
			i++
			j++
		}
	}
	for ; i < len(locals); i++ {
		changes = append(changes, &Change{Path: locals[i].path, Type: ChangeTypeAdded})
	}
	for ; j < len(remotes); j++ {
		changes = append(changes, &Change{Path: remotes[j].Path, Type: ChangeTypeRemoved})
	}

	return changes, nil
}

// listLocalFiles walks root and returns its files as slash-separated
// relative paths, ordered lexicographically.
func listLocalFiles(root string) ([]localFile, error) {
	var files []localFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, localFile{
			path:  filepath.ToSlash(rel),
			size:  info.Size(),
			mtime: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].path < files[j].path
	})
	return files, nil
}
