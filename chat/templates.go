package chat

import (
	"fmt"
	"strings"

	"github.com/hrygo/docshelf/internal/ref"
	"github.com/hrygo/docshelf/store"
)

const welcomeMessage = "Hi! I'm docshelf, a bot for keeping your files organized.\n" +
	"To upload a file, just send it and pick a category for it.\n\n" +
	"Main keyboard buttons:\n" +
	"*" + LabelMyFiles + "* - list your uploaded files\n" +
	"*" + LabelGetCategory + "* - get all files of one category\n" +
	"*" + LabelDeleteCategory + "* - delete all files of one category"

const (
	msgChooseCategory        = "You can send more files to save, or choose a category:"
	msgAddedToBatch          = "Added to the batch!"
	msgEnterCategoryName     = "Enter a category name:"
	msgIncorrectCategoryName = "That category name is not allowed. Enter another one"
	msgFinishCurrentAction   = "Please finish the current action first"

	msgAllFilesSaved  = "All files saved!"
	msgRestFilesSaved = "The rest were saved!"
	msgNoFilesSaved   = "No files were saved!"

	msgNoFilesYet = "Looks like you have no files yet.\n" +
		"You can upload one by sending it as a file"
	msgNoCategoriesToDelete = "You have no categories to delete"
	msgChooseGetCategory    = "Choose a category to get:"
	msgChooseDeleteCategory = "Choose a category to delete:"

	msgFileNotFound     = "Can't find a file with that reference"
	msgInvalidReference = "That doesn't look like a file reference"
	msgFileDeleted      = "Deleted!"

	msgSomethingWentWrong = "Something went wrong, please try again later"
)

func msgFileAlreadySaved(name string) string {
	return fmt.Sprintf("%s is already saved", name)
}

func msgCategoryDeleted(category string) string {
	return fmt.Sprintf("Category %s deleted", category)
}

// renderGroupedFiles renders the "My files" listing: files grouped by
// category, each with its fetch and delete command hints.
func renderGroupedFiles(categories []string, grouped map[string][]*store.FileRecord) string {
	blocks := make([]string, 0, len(categories))
	for _, category := range categories {
		lines := make([]string, 0, len(grouped[category]))
		for _, file := range grouped[category] {
			lines = append(lines, fmt.Sprintf(
				"`%s`\n_Get file:_ /f%s\n_Delete file:_ /d%s",
				file.FileName, ref.Format(file.ID), ref.Format(file.ID),
			))
		}
		blocks = append(blocks, fmt.Sprintf("*%s*\n\n%s", category, strings.Join(lines, "\n\n")))
	}
	return strings.Join(blocks, "\n\n")
}
