package gamedata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DialogueLine is one line of banter: narration plus optional taunts.
// In the file each line is "narration,player one taunt,player two taunt".
type DialogueLine struct {
	Text   string
	Taunts []string
}

// Taunt returns taunt i, or "" when the line has none.
func (d DialogueLine) Taunt(i int) string {
	if i < 0 || i >= len(d.Taunts) {
		return ""
	}
	return d.Taunts[i]
}

// ParseDialogue reads comma-separated dialogue lines. Blank lines are skipped.
func ParseDialogue(r io.Reader) ([]DialogueLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var lines []DialogueLine
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse dialogue: %w", err)
		}
		text := strings.TrimSpace(record[0])
		if text == "" {
			continue
		}
		line := DialogueLine{Text: text}
		for _, taunt := range record[1:] {
			line.Taunts = append(line.Taunts, strings.TrimSpace(taunt))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadDialogue reads the embedded dialogue.txt.
func LoadDialogue() ([]DialogueLine, error) {
	f, err := dataFS.Open("dialogue.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded file dialogue.txt: %w", err)
	}
	defer f.Close()
	return ParseDialogue(f)
}

// LoadDialogueFile reads a dialogue file from disk.
func LoadDialogueFile(path string) ([]DialogueLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDialogue(f)
}
