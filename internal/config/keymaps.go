package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Tasks
	AddTask    string `yaml:"add_task"`
	EditTask   string `yaml:"edit_task"`
	DeleteTask string `yaml:"delete_task"`
	ViewTask   string `yaml:"view_task"`

	// Dragging: grab arms a drag on the selected task or column, the
	// move keys hover it, drop commits, cancel restores.
	GrabTask   string `yaml:"grab_task"`
	GrabColumn string `yaml:"grab_column"`
	MoveLeft   string `yaml:"move_left"`
	MoveRight  string `yaml:"move_right"`
	MoveUp     string `yaml:"move_up"`
	MoveDown   string `yaml:"move_down"`
	Drop       string `yaml:"drop"`
	CancelDrag string `yaml:"cancel_drag"`

	// Forms
	SaveForm string `yaml:"save_form"`

	// Columns
	CreateColumn string `yaml:"create_column"`
	RenameColumn string `yaml:"rename_column"`
	DeleteColumn string `yaml:"delete_column"`

	// Boards
	CreateBoard string `yaml:"create_board"`
	NextBoard   string `yaml:"next_board"`
	PrevBoard   string `yaml:"prev_board"`

	// Navigation
	PrevColumn string `yaml:"prev_column"`
	NextColumn string `yaml:"next_column"`
	PrevTask   string `yaml:"prev_task"`
	NextTask   string `yaml:"next_task"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		// Tasks
		AddTask:    "a",
		EditTask:   "e",
		DeleteTask: "d",
		ViewTask:   " ",

		// Dragging
		GrabTask:   "g",
		GrabColumn: "G",
		MoveLeft:   "H",
		MoveRight:  "L",
		MoveUp:     "K",
		MoveDown:   "J",
		Drop:       "enter",
		CancelDrag: "esc",

		// Forms
		SaveForm: "ctrl+s",

		// Columns
		CreateColumn: "C",
		RenameColumn: "R",
		DeleteColumn: "X",

		// Boards
		CreateBoard: "B",
		NextBoard:   "}",
		PrevBoard:   "{",

		// Navigation
		PrevColumn: "h",
		NextColumn: "l",
		PrevTask:   "k",
		NextTask:   "j",

		// Other
		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in any unset key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	if k.AddTask == "" {
		k.AddTask = defaults.AddTask
	}
	if k.EditTask == "" {
		k.EditTask = defaults.EditTask
	}
	if k.DeleteTask == "" {
		k.DeleteTask = defaults.DeleteTask
	}
	if k.ViewTask == "" {
		k.ViewTask = defaults.ViewTask
	}
	if k.GrabTask == "" {
		k.GrabTask = defaults.GrabTask
	}
	if k.GrabColumn == "" {
		k.GrabColumn = defaults.GrabColumn
	}
	if k.MoveLeft == "" {
		k.MoveLeft = defaults.MoveLeft
	}
	if k.MoveRight == "" {
		k.MoveRight = defaults.MoveRight
	}
	if k.MoveUp == "" {
		k.MoveUp = defaults.MoveUp
	}
	if k.MoveDown == "" {
		k.MoveDown = defaults.MoveDown
	}
	if k.Drop == "" {
		k.Drop = defaults.Drop
	}
	if k.CancelDrag == "" {
		k.CancelDrag = defaults.CancelDrag
	}
	if k.SaveForm == "" {
		k.SaveForm = defaults.SaveForm
	}
	if k.CreateColumn == "" {
		k.CreateColumn = defaults.CreateColumn
	}
	if k.RenameColumn == "" {
		k.RenameColumn = defaults.RenameColumn
	}
	if k.DeleteColumn == "" {
		k.DeleteColumn = defaults.DeleteColumn
	}
	if k.CreateBoard == "" {
		k.CreateBoard = defaults.CreateBoard
	}
	if k.NextBoard == "" {
		k.NextBoard = defaults.NextBoard
	}
	if k.PrevBoard == "" {
		k.PrevBoard = defaults.PrevBoard
	}
	if k.PrevColumn == "" {
		k.PrevColumn = defaults.PrevColumn
	}
	if k.NextColumn == "" {
		k.NextColumn = defaults.NextColumn
	}
	if k.PrevTask == "" {
		k.PrevTask = defaults.PrevTask
	}
	if k.NextTask == "" {
		k.NextTask = defaults.NextTask
	}
	if k.ShowHelp == "" {
		k.ShowHelp = defaults.ShowHelp
	}
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
}
