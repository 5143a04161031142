package tui

import "github.com/jlasky/marquee/internal/domain"

// sessionChangedMsg signals a session state transition
type sessionChangedMsg struct{}

// moviesLoadedMsg carries a fresh catalogue snapshot
type moviesLoadedMsg struct {
	movies []domain.Movie
}

// storeChangedMsg signals that the movie collection changed
type storeChangedMsg struct{}

// externalResultsMsg carries one provider search page
type externalResultsMsg struct {
	page *domain.ExternalSearchPage
}

// importedMsg signals a completed import
type importedMsg struct {
	movie domain.Movie
}

// loginDoneMsg signals the outcome of an explicit login
type loginDoneMsg struct {
	err error
}

// errMsg carries a failed operation's error
type errMsg struct {
	err error
}
