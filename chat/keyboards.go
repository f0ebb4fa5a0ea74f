package chat

// Reserved control labels. Category names colliding with these are rejected.
const (
	LabelNewCategory = "New category"
	LabelCancel      = "Cancel"
)

// Main menu labels, rendered as a persistent reply keyboard.
const (
	LabelMyFiles        = "My files"
	LabelGetCategory    = "Get category"
	LabelDeleteCategory = "Delete category"
)

// MainMenuButtons lists the persistent keyboard rows in display order.
var MainMenuButtons = []string{LabelMyFiles, LabelGetCategory, LabelDeleteCategory}

// categoryChoiceKeyboard offers the user's categories plus "New category"
// when staging an upload.
func categoryChoiceKeyboard(categories []string) *Keyboard {
	return &Keyboard{Buttons: append(append([]string{}, categories...), LabelNewCategory)}
}

// categorySelectKeyboard offers the user's categories plus "Cancel" for the
// retrieval and deletion flows.
func categorySelectKeyboard(categories []string) *Keyboard {
	return &Keyboard{Buttons: append(append([]string{}, categories...), LabelCancel)}
}
