// Package ui provides the terminal interface for the mufradat drill.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/yamanq/mufradat/drill"
	"github.com/yamanq/mufradat/drill/audio"
)

const statusMessageTimeout = time.Second * 3

// NewProgram returns a new Tea program running the drill.
func NewProgram(cfg Config) *tea.Program {
	log.Debug(
		"Starting mufradat",
		"word_file", cfg.WordFile,
		"audio_dir", cfg.AudioDir,
		"voice", cfg.Voice,
		"random_voice", cfg.RandomVoice,
	)
	return tea.NewProgram(newModel(cfg), tea.WithAltScreen())
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	// drillEventMsg wraps a controller notification for the update loop.
	drillEventMsg struct{ ev drill.Event }

	// wordsLoadedMsg carries a freshly parsed word store.
	wordsLoadedMsg struct {
		words []drill.Word
		err   error
	}

	// wordFileChangedMsg indicates the word list changed on disk.
	wordFileChangedMsg struct{}

	statusTimeoutMsg struct{ seq int }
)

// viewState is the top-level view.
type viewState int

const (
	viewCard viewState = iota
	viewRangeInput
	viewWordList
)

func (s viewState) String() string {
	return map[viewState]string{
		viewCard:       "showing card",
		viewRangeInput: "selecting range",
		viewWordList:   "browsing word list",
	}[s]
}

type model struct {
	cfg  Config
	keys keyMap

	session *drill.Session
	cache   *drill.Cache
	ctrl    *drill.Controller

	// Controller events and file-watch notifications arrive here and are
	// pumped into the update loop one at a time.
	events    chan tea.Msg
	stopWatch func()

	state     viewState
	fields    cardFields
	rangeForm rangeInputModel
	wordList  wordListModel

	width  int
	height int

	current   drill.Word
	index     int
	playState drill.StateType
	repeat    int
	repeatOf  int
	voice     drill.Voice

	rangeStart int
	rangeEnd   int

	showHelp bool
	fatalErr error

	statusMessage string
	statusSeq     int
}

func newModel(cfg Config) *model {
	dcfg := drill.DefaultConfig()
	if cfg.RepeatCount > 0 {
		dcfg.RepeatCount = cfg.RepeatCount
	}
	if cfg.Interval > 0 {
		dcfg.Interval = cfg.Interval
	}
	dcfg.AutoPlay = cfg.AutoPlay
	dcfg.RandomVoice = cfg.RandomVoice
	if v, err := drill.ParseVoice(cfg.Voice); err == nil {
		dcfg.Voice = v
	}

	session := drill.NewSession(nil)
	resolver := drill.Resolver{AudioDir: cfg.AudioDir}
	cache := drill.NewCache(resolver, audio.FileLoader{}, dcfg)
	ctrl := drill.NewController(session, cache, audio.NewPlayer(), dcfg)

	m := &model{
		cfg:       cfg,
		keys:      newKeyMap(),
		session:   session,
		cache:     cache,
		ctrl:      ctrl,
		events:    make(chan tea.Msg, 64),
		state:     viewCard,
		fields:    defaultCardFields(),
		rangeForm: newRangeInput(),
		wordList:  newWordList(),
		voice:     dcfg.Voice,
	}

	ctrl.OnEvent(func(ev drill.Event) {
		select {
		case m.events <- drillEventMsg{ev: ev}:
		default:
			log.Debug("Event dropped, update loop is behind", "event", fmt.Sprintf("%T", ev))
		}
	})

	if cfg.WatchWordFile && cfg.WordFile != "" {
		stop, err := drill.WatchWordFile(cfg.WordFile, func() {
			select {
			case m.events <- wordFileChangedMsg{}:
			default:
			}
		})
		if err != nil {
			log.Warn("Unable to watch word file", "file", cfg.WordFile, "err", err)
		} else {
			m.stopWatch = stop
		}
	}

	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(loadWords(m.cfg.WordFile), m.waitForEvent())
}

// waitForEvent pumps the next controller or watcher notification into the
// update loop.
func (m *model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func loadWords(path string) tea.Cmd {
	return func() tea.Msg {
		words, err := drill.LoadWordFile(path)
		return wordsLoadedMsg{words: words, err: err}
	}
}

// setStatus shows a transient message in the status bar.
func (m *model) setStatus(s string) tea.Cmd {
	m.statusMessage = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{seq: seq}
	})
}

func (m *model) shutdown() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
	m.ctrl.Stop()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been a fatal error, any key exits.
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.shutdown()
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.state == viewCard || msg.String() == "ctrl+c" {
				m.shutdown()
				return m, tea.Quit
			}
		}
		switch m.state {
		case viewCard:
			return m.updateCardKeys(msg)
		case viewRangeInput:
			return m.updateRangeKeys(msg)
		case viewWordList:
			return m.updateWordListKeys(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.cfg.Width > 0 && m.width > int(m.cfg.Width) { //nolint:gosec
			m.width = int(m.cfg.Width) //nolint:gosec
		}

	case wordsLoadedMsg:
		return m.handleWordsLoaded(msg)

	case wordFileChangedMsg:
		log.Info("Word file changed, reloading", "file", m.cfg.WordFile)
		cmds = append(cmds, loadWords(m.cfg.WordFile), m.waitForEvent())

	case drillEventMsg:
		cmds = append(cmds, m.handleDrillEvent(msg.ev)...)
		cmds = append(cmds, m.waitForEvent())

	case statusTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}

	case errMsg:
		m.fatalErr = msg.err
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleWordsLoaded(msg wordsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Error("Unable to load word list", "file", m.cfg.WordFile, "err", msg.err)
		return m, m.setStatus("word list: " + msg.err.Error())
	}

	m.session.Replace(msg.words)

	start, end := m.rangeStart, m.rangeEnd
	if start == 0 && end == 0 {
		start, end = m.cfg.RangeStart, m.cfg.RangeEnd
	}
	if start == 0 && end == 0 {
		start, end = storeBounds(msg.words)
	}

	if err := m.ctrl.SelectRange(start, end); err != nil {
		return m, m.setStatus(fmt.Sprintf("range %d-%d: %v", start, end, err))
	}
	m.rangeStart, m.rangeEnd = start, end
	log.Info("Word list ready", "words", len(msg.words), "queue", m.session.Len())
	return m, nil
}

// storeBounds returns the lowest and highest id in the store.
func storeBounds(words []drill.Word) (lo, hi int) {
	for i, w := range words {
		if i == 0 || w.ID < lo {
			lo = w.ID
		}
		if i == 0 || w.ID > hi {
			hi = w.ID
		}
	}
	return lo, hi
}

func (m *model) handleDrillEvent(ev drill.Event) []tea.Cmd {
	var cmds []tea.Cmd

	switch ev := ev.(type) {
	case drill.WordChangedMsg:
		m.current = ev.Word
		m.index = ev.Index

	case drill.PlayingMsg:
		m.current = ev.Word
		m.index = ev.Index
		m.voice = ev.Voice
		m.repeat = ev.Repeat
		m.repeatOf = ev.Of

	case drill.StateChangedMsg:
		m.playState = ev.State
		if ev.State == drill.StateIdle {
			m.repeat = 0
		}

	case drill.AutoPlayMsg:
		if !ev.Enabled && ev.Reason != "user" {
			cmds = append(cmds, m.setStatus("auto-play off: "+ev.Reason))
		}

	case drill.PlayerBlockedMsg:
		cmds = append(cmds, m.setStatus("audio output unavailable, check your sound device"))

	case drill.PlaybackErrorMsg:
		cmds = append(cmds, m.setStatus(fmt.Sprintf("cannot play word %d: %v", ev.Word.ID, ev.Err)))
	}

	return cmds
}

func (m *model) updateCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Play):
		if err := m.ctrl.Play(); err != nil {
			return m, m.setStatus("cannot play: " + err.Error())
		}

	case key.Matches(msg, keys.Stop):
		m.ctrl.Stop()

	case key.Matches(msg, keys.Next):
		if err := m.ctrl.Next(); err != nil {
			return m, m.setStatus(err.Error())
		}

	case key.Matches(msg, keys.Previous):
		if err := m.ctrl.Previous(); err != nil {
			return m, m.setStatus(err.Error())
		}

	case key.Matches(msg, keys.AutoPlay):
		m.ctrl.SetAutoPlay(!m.ctrl.Config().AutoPlay)

	case key.Matches(msg, keys.Voice):
		m.cycleVoice()
		go m.ctrl.RefillPrefetch()

	case key.Matches(msg, keys.Random):
		cfg := m.ctrl.Config()
		m.ctrl.SetRandomVoice(!cfg.RandomVoice)
		go m.ctrl.RefillPrefetch()

	case key.Matches(msg, keys.RepeatUp):
		cfg := m.ctrl.Config()
		if cfg.RepeatCount < 100 {
			m.ctrl.SetRepeatCount(cfg.RepeatCount + 1)
		}

	case key.Matches(msg, keys.RepeatDown):
		m.ctrl.SetRepeatCount(m.ctrl.Config().RepeatCount - 1)

	case key.Matches(msg, keys.PauseUp):
		cfg := m.ctrl.Config()
		if cfg.Interval < 600*time.Second {
			m.ctrl.SetInterval(cfg.Interval + time.Second)
		}

	case key.Matches(msg, keys.PauseDown):
		m.ctrl.SetInterval(m.ctrl.Config().Interval - time.Second)

	case key.Matches(msg, keys.Range):
		m.state = viewRangeInput
		m.rangeForm.open(m.rangeStart, m.rangeEnd)

	case key.Matches(msg, keys.Find):
		m.state = viewWordList
		m.wordList.open(m.session.Queue(), m.session.Cursor())

	case key.Matches(msg, keys.Fields):
		n := int(msg.String()[0] - '0')
		m.fields.toggle(n)

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

// cycleVoice steps to the next explicit voice, leaving randomized mode.
func (m *model) cycleVoice() {
	voices := drill.Voices()
	cur := m.ctrl.Config().Voice
	next := voices[0]
	for i, v := range voices {
		if v == cur {
			next = voices[(i+1)%len(voices)]
			break
		}
	}
	m.ctrl.SetVoice(next)
	m.voice = next
}

func (m *model) updateRangeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rangeForm.close()
		m.state = viewCard
		return m, nil

	case "enter":
		start, end, err := parseRange(m.rangeForm.input.Value())
		if err != nil {
			return m, m.setStatus(err.Error())
		}
		if err := m.ctrl.SelectRange(start, end); err != nil {
			return m, m.setStatus(fmt.Sprintf("range %d-%d: %v", start, end, err))
		}
		m.rangeStart, m.rangeEnd = start, end
		m.rangeForm.close()
		m.state = viewCard
		return m, nil
	}

	var cmd tea.Cmd
	m.rangeForm.input, cmd = m.rangeForm.input.Update(msg)
	return m, cmd
}

func (m *model) updateWordListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.wordList.close()
		m.state = viewCard
		return m, nil

	case "up", "ctrl+p":
		m.wordList.moveSelection(-1)
		return m, nil

	case "down", "ctrl+n":
		m.wordList.moveSelection(1)
		return m, nil

	case "enter":
		index, ok := m.wordList.choice()
		m.wordList.close()
		m.state = viewCard
		if !ok {
			return m, nil
		}
		if err := m.ctrl.JumpTo(index); err != nil {
			return m, m.setStatus(err.Error())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.wordList.input, cmd = m.wordList.input.Update(msg)
	m.wordList.filter()
	return m, cmd
}

func (m *model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr)
	}
	if m.width == 0 {
		return ""
	}

	switch m.state {
	case viewWordList:
		body := m.wordList.view(m.width, m.height-1)
		return body + "\n" + m.statusBarView()
	default:
		return m.cardView()
	}
}

func (m *model) cardView() string {
	contentHeight := m.height - 1 // status bar
	var footer string
	switch {
	case m.state == viewRangeInput:
		footer = "  " + m.rangeForm.view()
		contentHeight--
	case m.showHelp:
		footer = m.keys.helpView()
		contentHeight -= strings.Count(footer, "\n")
	}

	if contentHeight < 1 {
		contentHeight = 1
	}

	var body string
	if m.session.Len() == 0 {
		body = subtleStyle.Render("no words loaded — press r to select a range")
	} else {
		body = renderCard(m.current, m.fields, m.width-4)
	}

	card := lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)

	var b strings.Builder
	b.WriteString(card)
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	b.WriteString("\n")
	b.WriteString(m.statusBarView())
	return b.String()
}

func (m *model) statusBarView() string {
	logo := logoStyle.Render("mufradat")

	var note string
	if m.statusMessage != "" {
		note = statusMessageStyle.Render(m.statusMessage)
	} else {
		note = statusBarNoteStyle.Render(" " + m.playbackNote())
	}

	cfg := m.ctrl.Config()
	var right []string
	if m.session.Len() > 0 {
		right = append(right, fmt.Sprintf("%d/%d", m.index+1, m.session.Len()))
	}
	if cfg.RandomVoice {
		right = append(right, "voice:random")
	} else {
		right = append(right, "voice:"+string(cfg.Voice))
	}
	if cfg.RepeatCount > 1 {
		right = append(right, fmt.Sprintf("×%d", cfg.RepeatCount))
	}
	if cfg.AutoPlay {
		right = append(right, fmt.Sprintf("auto %ds", int(cfg.Interval.Seconds())))
	}
	if entries, bytes := m.cache.Stats(); entries > 0 {
		right = append(right, fmt.Sprintf("%d clips · %s", entries, humanize.Bytes(uint64(bytes)))) //nolint:gosec
	}
	rightStr := statusBarStyle.Render(" " + strings.Join(right, "  ") + " ")

	spaceWidth := m.width - lipgloss.Width(logo) - lipgloss.Width(note) - lipgloss.Width(rightStr)
	if spaceWidth < 0 {
		note = truncate.StringWithTail(note, uint(max(lipgloss.Width(note)+spaceWidth, 0)), ellipsis) //nolint:gosec
		spaceWidth = 0
	}
	space := statusBarStyle.Render(strings.Repeat(" ", spaceWidth))

	return logo + note + space + rightStr
}

// playbackNote describes the current playback state for the status bar.
func (m *model) playbackNote() string {
	switch m.playState {
	case drill.StatePlaying, drill.StateRepeating:
		icon := playingStyle.Render("▶")
		if m.playState == drill.StateRepeating {
			icon = repeatingStyle.Render("↺")
		}
		if m.repeatOf > 1 {
			return fmt.Sprintf("%s %s (%d/%d)", icon, m.current.Display(), m.repeat, m.repeatOf)
		}
		return fmt.Sprintf("%s %s", icon, m.current.Display())
	default:
		return subtleStyle.Render("space: play  ?: help")
	}
}

func errorView(err error) string {
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorStyle.Render("ERROR"),
		err,
		subtleStyle.Render("press any key to exit"),
	)
	return "\n" + indent(s, 3)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
