package ui

// Bubbletea messages produced by background commands. The stores own the
// actual state; these only signal that an operation settled so the view can
// re-read them.

type authResultMsg struct {
	Err error
}

type loggedOutMsg struct{}

type historyLoadedMsg struct {
	Err error
}

type olderLoadedMsg struct {
	Err error
}

type sendSettledMsg struct {
	Err error
}

type clearSettledMsg struct {
	Err error
}

type productsLoadedMsg struct {
	Err error
}

type messageCopiedMsg struct {
	Err error
}
