package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/story"
)

// StoryService returns the next turn of the narrative. An empty priorStory
// means a brand-new adventure.
type StoryService interface {
	Fetch(ctx context.Context, priorStory, chosenOption string) (*story.Turn, error)
}

// ImageService renders an illustration for a scene prompt.
type ImageService interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// opKind distinguishes the error prefix of a cycle.
type opKind int

const (
	opStart opKind = iota
	opChoose
)

func (k opKind) wrap(err error) string {
	if k == opChoose {
		return fmt.Sprintf("%s: %v", playErrorPrefix, err)
	}
	return fmt.Sprintf("%s: %v", startErrorPrefix, err)
}

// Controller owns the SessionState of one adventure session and is its sole
// writer. Start, Choose and Restart each begin a fetch cycle: story fetch,
// conditional image fetch, state commit. Cycles run asynchronously; when a
// new cycle begins before the previous one resolved, only the most recently
// initiated cycle's results are committed — stale generations are discarded
// on arrival.
type Controller struct {
	storySvc StoryService
	imageSvc ImageService
	logger   *zap.Logger
	onChange func(SessionState)

	mu    sync.Mutex
	state SessionState
}

// NewController creates the session controller. available is the external
// configuration signal: when false the session starts permanently degraded
// and no fetch operation is ever attempted.
func NewController(storySvc StoryService, imageSvc ImageService, available bool, logger *zap.Logger) *Controller {
	c := &Controller{
		storySvc: storySvc,
		imageSvc: imageSvc,
		logger:   logger.Named("GameController"),
	}
	c.state.ServiceAvailable = available
	c.state.UpdatedAt = time.Now().UTC()
	if available {
		// The initial fetch is imminent; reflect it before Start is called.
		c.state.StoryLoading = true
	} else {
		c.state.Error = ServiceUnavailableMessage
		c.logger.Error("Session started degraded: backend not configured")
	}
	return c
}

// OnChange registers a callback invoked with a state copy after every
// committed mutation. Must be set before the controller is used.
func (c *Controller) OnChange(fn func(SessionState)) {
	c.onChange = fn
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Start begins a new adventure from an empty narrative.
func (c *Controller) Start(ctx context.Context) SessionState {
	return c.begin(ctx, opStart, false, "")
}

// Restart resets the narrative fields and then behaves exactly like Start.
// It does not recover a degraded session.
func (c *Controller) Restart(ctx context.Context) SessionState {
	return c.begin(ctx, opStart, true, "")
}

// Choose advances the story with the player's chosen option. The option text
// is forwarded as stated; the story service, not the client, is authoritative
// over valid continuations.
func (c *Controller) Choose(ctx context.Context, optionText string) SessionState {
	return c.begin(ctx, opChoose, false, optionText)
}

// begin performs the synchronous head of a fetch cycle: it validates the
// session, resets per-cycle fields, raises both loading flags and launches
// the asynchronous remainder tagged with a fresh generation.
func (c *Controller) begin(ctx context.Context, kind opKind, reset bool, chosenOption string) SessionState {
	c.mu.Lock()

	if !c.state.ServiceAvailable {
		// Terminal: keep the fixed critical message, never fetch.
		c.state.Error = ServiceUnavailableMessage
		c.state.StoryLoading = false
		c.state.ImageLoading = false
		c.state.UpdatedAt = time.Now().UTC()
		snap := c.state.clone()
		c.mu.Unlock()
		c.publish(snap)
		return snap
	}

	if reset {
		c.state.StoryText = ""
		c.state.ImageData = nil
		c.state.ImagePrompt = ""
		c.state.Choices = nil
	}

	c.state.Generation++
	gen := c.state.Generation
	priorStory := c.state.StoryText

	c.state.Error = ""
	c.state.ImageData = nil
	c.state.StoryLoading = true
	c.state.ImageLoading = true
	c.state.UpdatedAt = time.Now().UTC()
	snap := c.state.clone()
	c.mu.Unlock()
	c.publish(snap)

	// The cycle outlives the triggering request.
	go c.runCycle(context.WithoutCancel(ctx), gen, kind, priorStory, chosenOption)

	return snap
}

// runCycle is the asynchronous tail of a fetch cycle: story fetch, then a
// conditional image fetch. Both loading flags are lowered on every exit path.
func (c *Controller) runCycle(ctx context.Context, gen uint64, kind opKind, priorStory, chosenOption string) {
	defer c.commit(gen, func(s *SessionState) {
		s.StoryLoading = false
		s.ImageLoading = false
	})

	turn, err := c.storySvc.Fetch(ctx, priorStory, chosenOption)
	if err != nil {
		c.logger.Warn("Story fetch failed",
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		// Prior storyText and choices stay visible; the error is layered on top.
		c.commit(gen, func(s *SessionState) {
			s.Error = kind.wrap(err)
		})
		return
	}

	choices := make([]Choice, 0, len(turn.ChoiceTexts))
	for _, text := range turn.ChoiceTexts {
		choices = append(choices, Choice{ID: uuid.NewString(), Text: text})
	}

	committed := c.commit(gen, func(s *SessionState) {
		s.StoryText = turn.StorySegment
		s.Choices = choices
		s.ImagePrompt = turn.ImagePrompt
	})
	if !committed {
		c.logger.Debug("Discarding stale story result", zap.Uint64("generation", gen))
		return
	}

	if turn.ImagePrompt == "" {
		return
	}

	data, err := c.imageSvc.Generate(ctx, turn.ImagePrompt)
	if err != nil {
		c.logger.Warn("Image fetch failed",
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		// Non-fatal: the narrative already advanced, only the illustration
		// is missing.
		c.commit(gen, func(s *SessionState) {
			s.Error = kind.wrap(err)
		})
		return
	}

	c.commit(gen, func(s *SessionState) {
		s.ImageData = data
	})
}

// commit applies mutate to the state if gen is still the current generation
// and reports whether the mutation was committed.
func (c *Controller) commit(gen uint64, mutate func(*SessionState)) bool {
	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		return false
	}
	mutate(&c.state)
	c.state.UpdatedAt = time.Now().UTC()
	snap := c.state.clone()
	c.mu.Unlock()
	c.publish(snap)
	return true
}

func (c *Controller) publish(snap SessionState) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
