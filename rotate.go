package flog

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// rotateIfNeeded archives the target file when rotation is enabled and the
// file is larger than maxFileSize. Failures are reported and never stop the
// write that follows.
func (l *Logger) rotateIfNeeded() {
	if l.maxFileSize == 0 {
		return
	}

	size, exists, err := fileSize(l.path)
	if err != nil {
		l.report(&WriteError{Op: "stat", Path: l.path, Err: err})
		return
	}
	if !exists || size <= l.maxFileSize {
		return
	}

	generation, err := nextGeneration(l.directory, l.baseName)
	if err != nil {
		l.report(&WriteError{Op: "scan", Path: l.directory, Err: err})
		return
	}

	archive := archiveName(l.path, generation)
	if err := renameNoClobber(l.path, archive); err != nil {
		// Another writer rotated first or the archive was placed by hand;
		// the oversized file stays until the next record.
		if errors.Is(err, errArchiveExists) || errors.Is(err, errLostRace) {
			return
		}
		l.report(&WriteError{Op: "rotate", Path: archive, Err: err})
	}
}

// nextGeneration scans dir for archives of baseName and returns one more
// than the highest generation found, or 1 when there is none.
func nextGeneration(dir, baseName string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, entry := range entries {
		if gen, ok := archiveGeneration(entry.Name(), baseName); ok && gen > highest {
			highest = gen
		}
	}
	return highest + 1, nil
}

// archiveGeneration extracts the generation number from an archive file name.
// Any name containing baseName qualifies if the segment after its last dot is
// a non-negative integer; "app.log..3" counts as generation 3.
func archiveGeneration(name, baseName string) (int, bool) {
	if !strings.Contains(name, baseName) {
		return 0, false
	}
	last := name[strings.LastIndexByte(name, '.')+1:]
	if last == "" {
		return 0, false
	}
	for _, c := range last {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	gen, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// archiveName returns the path a file is moved to for the given generation.
func archiveName(path string, generation int) string {
	return path + "." + strconv.Itoa(generation)
}
