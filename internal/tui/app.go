// Package tui is the terminal front end. It is deliberately thin: every
// state change goes through the session manager and the movie store, and the
// views re-render from their subscriptions.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jlasky/marquee/internal/catalog"
	"github.com/jlasky/marquee/internal/domain"
	"github.com/jlasky/marquee/internal/metadata"
	"github.com/jlasky/marquee/internal/session"
	"github.com/jlasky/marquee/internal/tui/styles"
)

type view int

const (
	viewBrowse view = iota
	viewDetail
	viewLogin
	viewImport
)

// Model is the Bubble Tea application state
type Model struct {
	session  *session.Manager
	store    *catalog.Store
	genres   *catalog.GenreCache
	importer *metadata.Importer
	provider domain.MetadataProvider
	logger   *slog.Logger

	sessionCh <-chan struct{}
	storeCh   <-chan struct{}

	view view
	keys keyMap

	movieList   list.Model
	importList  list.Model
	searchInput textinput.Model
	importInput textinput.Model
	email       textinput.Model
	password    textinput.Model

	searching  bool
	fuzzyMode  bool
	loginFocus int
	importPage int
	selected   domain.Movie
	status     string
	err        error

	width  int
	height int
}

// NewModel wires the TUI over the core singletons. The provider and importer
// are nil when no metadata token is configured; the import view is disabled
// in that case.
func NewModel(sess *session.Manager, store *catalog.Store, genres *catalog.GenreCache,
	provider domain.MetadataProvider, importer *metadata.Importer, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	delegate := list.NewDefaultDelegate()
	movieList := list.New(nil, delegate, 0, 0)
	movieList.Title = "Movies"
	movieList.SetShowStatusBar(false)
	movieList.SetFilteringEnabled(false)

	importList := list.New(nil, delegate, 0, 0)
	importList.Title = "Import"
	importList.SetShowStatusBar(false)
	importList.SetFilteringEnabled(false)

	search := textinput.New()
	search.Placeholder = "search title or review"

	importInput := textinput.New()
	importInput.Placeholder = "search the metadata provider"

	email := textinput.New()
	email.Placeholder = "email"
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return Model{
		session:     sess,
		store:       store,
		genres:      genres,
		provider:    provider,
		importer:    importer,
		logger:      logger,
		sessionCh:   sess.Subscribe(),
		storeCh:     store.Subscribe(),
		keys:        newKeyMap(),
		movieList:   movieList,
		importList:  importList,
		searchInput: search,
		importInput: importInput,
		email:       email,
		password:    password,
		importPage:  1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.recoverCmd(),
		m.hydrateCmd(),
		m.loadGenresCmd(),
		watchCmd(m.sessionCh, func() tea.Msg { return sessionChangedMsg{} }),
		watchCmd(m.storeCh, func() tea.Msg { return storeChangedMsg{} }),
	)
}

// === Commands ===

// watchCmd turns a subscription channel into a message stream
func watchCmd(ch <-chan struct{}, msg func() tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return msg()
	}
}

func (m Model) recoverCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Recover(context.Background())
		return sessionChangedMsg{}
	}
}

func (m Model) hydrateCmd() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.store.Hydrate(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return moviesLoadedMsg{movies}
	}
}

func (m Model) loadGenresCmd() tea.Cmd {
	return func() tea.Msg {
		// A failed load means empty filter options, nothing more
		if _, err := m.genres.Load(context.Background()); err != nil {
			m.logger.Debug("genre load failed", "error", err)
		}
		return nil
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		err := m.session.Login(context.Background(), domain.LoginInput{
			Email:    email,
			Password: password,
		})
		return loginDoneMsg{err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout(context.Background())
		return sessionChangedMsg{}
	}
}

func (m Model) removeCmd(imdbID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Remove(imdbID); err != nil {
			return errMsg{err}
		}
		return storeChangedMsg{}
	}
}

func (m Model) searchExternalCmd(query string, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := m.provider.SearchMovies(context.Background(), query, page)
		if err != nil {
			return errMsg{err}
		}
		return externalResultsMsg{result}
	}
}

func (m Model) importCmd(externalID int) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.importer.ImportByID(context.Background(), externalID)
		if err != nil {
			return errMsg{err}
		}
		return importedMsg{movie}
	}
}

// === Update ===

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listHeight := msg.Height - 6
		m.movieList.SetSize(msg.Width-4, listHeight)
		m.importList.SetSize(msg.Width-4, listHeight)
		return m, nil

	case sessionChangedMsg:
		m.err = nil
		return m, watchCmd(m.sessionCh, func() tea.Msg { return sessionChangedMsg{} })

	case storeChangedMsg:
		m.refreshMovieItems()
		return m, watchCmd(m.storeCh, func() tea.Msg { return storeChangedMsg{} })

	case moviesLoadedMsg:
		m.refreshMovieItems()
		m.status = fmt.Sprintf("%d movies", len(msg.movies))
		return m, nil

	case externalResultsMsg:
		items := make([]list.Item, 0, len(msg.page.Results))
		for _, r := range msg.page.Results {
			items = append(items, externalItem{r})
		}
		m.importList.SetItems(items)
		m.importPage = msg.page.Page
		m.status = fmt.Sprintf("page %d/%d", msg.page.Page, msg.page.TotalPages)
		return m, nil

	case importedMsg:
		m.status = fmt.Sprintf("imported %q", msg.movie.Title)
		m.view = viewBrowse
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = viewBrowse
		m.email.Reset()
		m.password.Reset()
		return m, m.hydrateCmd()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs swallow everything except escape and enter
	if m.searching || m.view == viewLogin || m.view == viewImport {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			if m.view != viewBrowse {
				m.view = viewBrowse
			}
			m.refreshMovieItems()
			return m, nil
		case "enter":
			return m.handleEnter()
		case "tab":
			if m.view == viewLogin {
				m.toggleLoginFocus()
				return m, nil
			}
		}
		return m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.fuzzy):
		m.fuzzyMode = !m.fuzzyMode
		m.refreshMovieItems()
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, m.hydrateCmd()

	case key.Matches(msg, m.keys.login):
		if _, ok := m.session.Current(); !ok {
			m.view = viewLogin
			m.loginFocus = 0
			m.email.Focus()
			m.password.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.logout):
		if _, ok := m.session.Current(); ok {
			return m, m.logoutCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.imports):
		if m.importer != nil && m.sessionAuthenticated() {
			m.view = viewImport
			m.importInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.delete):
		if m.view == viewBrowse && m.sessionAuthenticated() {
			if item, ok := m.movieList.SelectedItem().(movieItem); ok {
				return m, m.removeCmd(item.movie.IMDBID)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		return m.handleEnter()

	case key.Matches(msg, m.keys.back):
		if m.view == viewDetail {
			m.view = viewBrowse
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewBrowse:
		if m.searching {
			m.searching = false
			m.searchInput.Blur()
			m.refreshMovieItems()
			return *m, nil
		}
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			// Detail navigation is always by external key
			if movie, found := m.store.Find(item.movie.IMDBID); found {
				m.selected = movie
				m.view = viewDetail
			}
		}
		return *m, nil

	case viewLogin:
		if m.loginFocus == 0 {
			m.toggleLoginFocus()
			return *m, nil
		}
		return *m, m.loginCmd(m.email.Value(), m.password.Value())

	case viewImport:
		if m.importInput.Focused() {
			m.importInput.Blur()
			return *m, m.searchExternalCmd(m.importInput.Value(), 1)
		}
		if item, ok := m.importList.SelectedItem().(externalItem); ok {
			return *m, m.importCmd(item.summary.ID)
		}
		return *m, nil
	}
	return *m, nil
}

func (m *Model) toggleLoginFocus() {
	m.loginFocus = 1 - m.loginFocus
	if m.loginFocus == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.email.Blur()
		m.password.Focus()
	}
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.searching:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.refreshMovieItems()
	case m.view == viewLogin:
		if m.loginFocus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case m.view == viewImport:
		if m.importInput.Focused() {
			m.importInput, cmd = m.importInput.Update(msg)
		} else {
			m.importList, cmd = m.importList.Update(msg)
		}
	default:
		m.movieList, cmd = m.movieList.Update(msg)
	}
	return m, cmd
}

// refreshMovieItems recomputes the visible list from the store
func (m *Model) refreshMovieItems() {
	query := m.searchInput.Value()

	var movies []domain.Movie
	if m.fuzzyMode {
		movies = fuzzyFilter(query, m.store.Movies())
	} else {
		movies = m.store.Search(query)
	}

	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie})
	}
	m.movieList.SetItems(items)
}

func (m Model) sessionAuthenticated() bool {
	_, ok := m.session.Current()
	return ok
}

// === View ===

func (m Model) View() string {
	var body string
	switch m.view {
	case viewDetail:
		body = m.detailView()
	case viewLogin:
		body = m.loginView()
	case viewImport:
		body = m.importView()
	default:
		body = m.browseView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m Model) browseView() string {
	var b strings.Builder
	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.movieList.View())
	return b.String()
}

func (m Model) detailView() string {
	movie := m.selected
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(movie.Title))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render(movie.FormattedRanking()))
	if movie.Ranking.Name != "" {
		b.WriteString(styles.SubtitleStyle.Render(" · " + movie.Ranking.Name))
	}
	b.WriteString("\n\n")
	if names := movie.GenreNames(); names != "" {
		b.WriteString(styles.SubtitleStyle.Render(names))
		b.WriteString("\n\n")
	}
	if movie.Overview != "" {
		b.WriteString(movie.Overview)
		b.WriteString("\n\n")
	}
	if movie.AdminReview != "" {
		b.WriteString(styles.TitleStyle.Render("Review"))
		b.WriteString("\n")
		b.WriteString(movie.AdminReview)
		b.WriteString("\n\n")
	}
	b.WriteString(styles.DimStyle.Render(movie.IMDBID))
	return styles.PaneStyle.Render(b.String())
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
	}
	return styles.FocusedPaneStyle.Render(b.String())
}

func (m Model) importView() string {
	var b strings.Builder
	b.WriteString(m.importInput.View())
	b.WriteString("\n")
	b.WriteString(m.importList.View())
	return b.String()
}

func (m Model) statusBar() string {
	who := "anonymous"
	if id, ok := m.session.Current(); ok {
		who = id.DisplayName
		if id.IsAdmin() {
			who += " (admin)"
		}
	}

	left := styles.AccentStyle.Render("marquee") + "  " + who
	right := m.status
	if m.err != nil {
		right = styles.ErrorStyle.Render(m.err.Error())
	}
	if m.fuzzyMode {
		right += "  [fuzzy]"
	}
	return styles.StatusBarStyle.Width(m.width).Render(left + "  " + right)
}
