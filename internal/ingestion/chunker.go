package ingestion

import "strings"

// Piece is one chunk of text ready for embedding, carrying the page it
// came from and its ordinal position within the document.
type Piece struct {
	Text  string
	Page  int
	Index int
}

// SplitPages cuts extracted pages into overlapping word windows. Chunks
// never span page boundaries, so every chunk has an unambiguous page
// number for citations.
func SplitPages(pages []Page, chunkSize, chunkOverlap int) []Piece {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	step := chunkSize - chunkOverlap

	var pieces []Piece
	index := 0
	for _, page := range pages {
		words := strings.Fields(page.Text)
		if len(words) == 0 {
			continue
		}

		for start := 0; start < len(words); start += step {
			end := start + chunkSize
			if end > len(words) {
				end = len(words)
			}

			pieces = append(pieces, Piece{
				Text:  strings.Join(words[start:end], " "),
				Page:  page.Number,
				Index: index,
			})
			index++

			if end == len(words) {
				break
			}
		}
	}

	return pieces
}
