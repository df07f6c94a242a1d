package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Regex for chunk header: @@ -oldStart,oldLen +newStart,newLen @@
var chunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ChangedFile is a file touched by a diff. ChangedLines are 1-based line
// numbers in the new version of the file.
type ChangedFile struct {
	Path         string
	ChangedLines []int
}

// GetChangedFiles runs git diff against baseRef in dir and returns the files
// still present in the work tree with their changed lines. Paths are
// relative to dir, and files outside it are left out.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "-U0", "--no-color", "--relative", baseRef, "--")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return parseDiff(output)
}

func parseDiff(output []byte) ([]ChangedFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var changes []ChangedFile
	var currentFile *ChangedFile
	deleted := false

	flush := func() {
		if currentFile != nil && !deleted {
			changes = append(changes, *currentFile)
		}
		currentFile, deleted = nil, false
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "diff --git") {
			flush()
			// a/path/to/file b/path/to/file, we want the b/ path
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				currentFile = &ChangedFile{Path: strings.TrimPrefix(parts[3], "b/"), ChangedLines: []int{}}
			}
			continue
		}

		if currentFile == nil {
			continue
		}

		if strings.HasPrefix(line, "deleted file mode") {
			deleted = true
			continue
		}

		if strings.HasPrefix(line, "@@") {
			matches := chunkHeader.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			startLine, _ := strconv.Atoi(matches[1])
			count := 1 // Default length is 1 if omitted
			if matches[2] != "" {
				count, _ = strconv.Atoi(matches[2])
			}

			// A pure deletion has no new lines. The line it follows is
			// marked so the enclosing declaration still counts as changed.
			if count == 0 {
				if startLine > 0 {
					currentFile.ChangedLines = append(currentFile.ChangedLines, startLine)
				}
				continue
			}
			for i := 0; i < count; i++ {
				currentFile.ChangedLines = append(currentFile.ChangedLines, startLine+i)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read git diff: %w", err)
	}

	flush()
	return changes, nil
}
