package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/rgehrsitz/finquest/internal/tui/scenes"
	"github.com/rgehrsitz/finquest/internal/tui/tuimsg"
)

// Backend is the part of the service the dashboard drives
type Backend interface {
	Dashboard(ctx context.Context, userID string) (service.Dashboard, error)
	CompleteChallenge(ctx context.Context, userID, challengeID string, sub challenge.Submission) (gamification.Outcome, error)
	SubmitProfile(ctx context.Context, userID string, profile domain.FinancialProfile) (service.ProfileResult, error)
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	backend     Backend
	userID      string
	profilePath string
	dashboard   *service.Dashboard

	homeModel       *scenes.HomeModel
	challengesModel *scenes.ChallengesModel
	badgesModel     *scenes.BadgesModel
	scoreModel      *scenes.ScoreModel

	// last informational message shown in the status line
	notice string

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. profilePath is optional; when set
// the u key scores that profile file.
func NewModel(backend Backend, userID, profilePath string) Model {
	return Model{
		currentScene:    SceneHome,
		backend:         backend,
		userID:          userID,
		profilePath:     profilePath,
		homeModel:       scenes.NewHomeModel(),
		challengesModel: scenes.NewChallengesModel(),
		badgesModel:     scenes.NewBadgesModel(),
		scoreModel:      scenes.NewScoreModel(),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading dashboard...",
	}
}

// Init loads the dashboard (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadDashboardCmd(m.backend, m.userID)
}

func loadDashboardCmd(b Backend, userID string) tea.Cmd {
	return func() tea.Msg {
		d, err := b.Dashboard(context.Background(), userID)
		return tuimsg.DashboardLoadedMsg{Dashboard: d, Err: err}
	}
}

func completeChallengeCmd(b Backend, userID string, msg tuimsg.SubmitChallengeMsg) tea.Cmd {
	return func() tea.Msg {
		out, err := b.CompleteChallenge(context.Background(), userID, msg.ChallengeID, msg.Submission)
		return tuimsg.ChallengeCompletedMsg{ChallengeID: msg.ChallengeID, Outcome: out, Err: err}
	}
}

func submitProfileCmd(b Backend, userID, path string) tea.Cmd {
	return func() tea.Msg {
		profile, err := config.NewInputParser().LoadProfile(path)
		if err != nil {
			return tuimsg.ProfileSubmittedMsg{Err: err}
		}
		res, err := b.SubmitProfile(context.Background(), userID, profile)
		return tuimsg.ProfileSubmittedMsg{Result: res, Err: err}
	}
}

// CurrentScene returns the visible scene
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// Err returns the error currently displayed, if any
func (m Model) Err() error {
	return m.err
}
