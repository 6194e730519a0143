package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed logrus text line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
	Raw     string
}

const timeLayout = "2006-01-02 15:04:05"

// Parse splits a key=value log line. Lines that do not look like logrus
// output come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	pairs := splitPairs(line)
	if len(pairs) == 0 {
		entry.Message = strings.TrimSpace(line)
		return entry
	}
	for _, kv := range pairs {
		switch kv[0] {
		case "time":
			if ts, err := time.ParseInLocation(timeLayout, kv[1], time.Local); err == nil {
				entry.Time = ts
			} else if ts, err := time.Parse(time.RFC3339, kv[1]); err == nil {
				entry.Time = ts
			}
		case "level":
			entry.Level = kv[1]
		case "msg":
			entry.Message = kv[1]
		default:
			if entry.Fields == nil {
				entry.Fields = make(map[string]string)
			}
			entry.Fields[kv[0]] = kv[1]
		}
	}
	if entry.Level == "" && entry.Message == "" {
		entry.Message = strings.TrimSpace(line)
	}
	return entry
}

// Tail reads and parses the last maxLines of the log at path.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// splitPairs tokenizes key=value and key="quoted value" pairs. It returns
// nil when any token lacks a key.
func splitPairs(line string) [][2]string {
	var pairs [][2]string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			return nil
		}
		key := line[i : i+eq]
		if strings.ContainsAny(key, " \"") {
			return nil
		}
		i += eq + 1

		var value string
		if i < len(line) && line[i] == '"' {
			var b strings.Builder
			i++
			for i < len(line) && line[i] != '"' {
				if line[i] == '\\' && i+1 < len(line) {
					i++
				}
				b.WriteByte(line[i])
				i++
			}
			i++ // closing quote
			value = b.String()
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			value = line[i : i+end]
			i += end
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs
}
