package portainer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"StackSnap/internal/logger"
)

// ScanDatabase extracts stack definitions from a raw copy of Portainer's
// embedded database file. The file is a BoltDB store, but the stack
// records inside it are plain JSON documents, so they can be recovered
// by scanning the bytes for well-formed stack objects without a BoltDB
// dependency. Records sharing an Id keep only the longest candidate,
// which corresponds to the current page for that key.
func ScanDatabase(ctx context.Context, dbPath string) ([]Stack, error) {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read database file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("database file %s is empty", dbPath)
	}

	stacks := scanStackObjects(data)
	if len(stacks) == 0 {
		logger.Warn(ctx, "No stack records found in {{_File_}}%s{{|-|}}", dbPath)
	}
	return stacks, nil
}

// scanStackObjects walks the raw bytes looking for JSON objects that
// open with the stack Id field and decode into a Stack.
func scanStackObjects(data []byte) []Stack {
	const marker = `{"Id":`

	byId := make(map[int]Stack)
	lengths := make(map[int]int)

	for i := 0; i+len(marker) <= len(data); i++ {
		if string(data[i:i+len(marker)]) != marker {
			continue
		}

		obj, n := extractObject(data[i:])
		if n == 0 {
			continue
		}

		var s Stack
		if err := json.Unmarshal(obj, &s); err != nil {
			continue
		}
		if s.Id <= 0 || s.Name == "" {
			continue
		}

		if prev, ok := lengths[s.Id]; !ok || n > prev {
			byId[s.Id] = s
			lengths[s.Id] = n
		}

		i += n - 1
	}

	stacks := make([]Stack, 0, len(byId))
	for _, s := range byId {
		stacks = append(stacks, s)
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].Id < stacks[j].Id })
	return stacks
}

// extractObject returns the balanced JSON object starting at data[0]
// and its byte length, honoring strings and escapes. Returns 0 when no
// balanced object terminates within the data.
func extractObject(data []byte) ([]byte, int) {
	if len(data) == 0 || data[0] != '{' {
		return nil, 0
	}

	depth := 0
	inString := false
	escaped := false

	for i, b := range data {
		if escaped {
			escaped = false
			continue
		}
		switch b {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return data[:i+1], i + 1
				}
			}
		}
	}
	return nil, 0
}
