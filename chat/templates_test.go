package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/docshelf/store"
)

func TestRenderGroupedFiles(t *testing.T) {
	categories := []string{"articles", "books"}
	grouped := map[string][]*store.FileRecord{
		"articles": {{ID: 3, FileName: "paper.pdf"}},
		"books":    {{ID: 1, FileName: "novel.epub"}, {ID: 12, FileName: "guide.pdf"}},
	}

	got := renderGroupedFiles(categories, grouped)

	want := "*articles*\n\n" +
		"`paper.pdf`\n_Get file:_ /f0003\n_Delete file:_ /d0003\n\n" +
		"*books*\n\n" +
		"`novel.epub`\n_Get file:_ /f0001\n_Delete file:_ /d0001\n\n" +
		"`guide.pdf`\n_Get file:_ /f0012\n_Delete file:_ /d0012"
	assert.Equal(t, want, got)
}

func TestRenderGroupedFilesWideID(t *testing.T) {
	// Ids beyond the display width keep all their digits.
	got := renderGroupedFiles([]string{"misc"}, map[string][]*store.FileRecord{
		"misc": {{ID: 123456, FileName: "big.pdf"}},
	})
	assert.Contains(t, got, "/f123456")
	assert.Contains(t, got, "/d123456")
}
