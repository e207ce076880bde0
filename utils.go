package main

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// copyEquipmentCode copies the code of the node under the cursor so it can
// be pasted into tickets or the verification sheet.
func (m *model) copyEquipmentCode() {
	n, ok := m.nodeUnderCursor()
	if !ok {
		m.errorMessage = "no node under cursor"
		return
	}
	if err := clipboard.WriteAll(n.Equipment.Code); err != nil {
		m.errorMessage = fmt.Sprintf("clipboard: %v", err)
		return
	}
	m.successMessage = "copied " + n.Equipment.Code
}
