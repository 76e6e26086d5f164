// Package orchestrator drives the fixed four-stage curriculum pipeline:
// acquire (generate or load), technical review, pedagogical review, merge.
// Stages run strictly in sequence; the pedagogical prompt references the
// technical review outcome through the shared context log.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verdant-labs/sprout/internal/agent"
	"github.com/verdant-labs/sprout/internal/anthropic"
	"github.com/verdant-labs/sprout/internal/curriculum"
	"github.com/verdant-labs/sprout/internal/errors"
	"github.com/verdant-labs/sprout/internal/event"
	"github.com/verdant-labs/sprout/internal/logging"
)

// Stage names used in progress callbacks and error wrapping.
const (
	StageAcquire     = "acquire"
	StageTechnical   = "technical-review"
	StagePedagogical = "pedagogical-review"
	StageMerge       = "merge"
)

// defaultScore stands in when a reviewer finishes without reporting one.
const defaultScore = 7

// SharedContext is the ephemeral per-run state threaded through the stages.
// It is created at the start of Orchestrate and discarded at the end, never
// persisted.
type SharedContext struct {
	Topic         string
	Round         int
	Contributions map[string][]string
	Consensus     bool
}

func newSharedContext(topic string) *SharedContext {
	return &SharedContext{
		Topic:         topic,
		Round:         1,
		Contributions: make(map[string][]string),
	}
}

func (sc *SharedContext) record(agentName, entry string) {
	sc.Contributions[agentName] = append(sc.Contributions[agentName], entry)
}

// Options selects the acquisition mode for one run. Exactly one mode is
// active per call: FromFile loads an existing serialized curriculum from the
// given path, otherwise the input is a free-text topic for the generator.
type Options struct {
	FromFile bool
}

// Result is the outcome of one orchestration run. UnresolvedIssues carries
// every critical finding and every finding in a detected conflict; Success
// is true iff it is empty and no blocker-kind feedback exists.
type Result struct {
	Success          bool
	Curriculum       *curriculum.Curriculum
	Feedback         []agent.Feedback
	AppliedChanges   []string
	UnresolvedIssues []agent.Feedback
	FeasibilityScore int
	PedagogyScore    int
}

// Orchestrator owns the three persona agents and runs them in order.
type Orchestrator struct {
	generator   *agent.Agent
	technical   *agent.Agent
	pedagogical *agent.Agent
	logger      *logging.Logger
	bus         *event.Bus
	callbacks   Callbacks
	debug       bool
}

// Config wires an Orchestrator. Client is required; everything else is
// optional. When Debug is set and OnDebug is provided, fine-grained agent
// events are forwarded to the hook for the duration of each run.
type Config struct {
	Client    anthropic.Client
	Logger    *logging.Logger
	Bus       *event.Bus
	Callbacks Callbacks
	Debug     bool
}

// New builds the orchestrator and its three persona agents.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	bus := cfg.Bus
	if bus == nil && cfg.Debug {
		bus = event.NewBus()
	}
	return &Orchestrator{
		generator:   agent.New(agent.Seedling(), cfg.Client, logger, bus),
		technical:   agent.New(agent.Bark(), cfg.Client, logger, bus),
		pedagogical: agent.New(agent.Canopy(), cfg.Client, logger, bus),
		logger:      logger.With("component", "orchestrator"),
		bus:         bus,
		callbacks:   cfg.Callbacks,
		debug:       cfg.Debug,
	}
}

// Orchestrate runs the full pipeline for a topic or curriculum file and
// returns the merged result. Any stage failure aborts the run and is
// returned wrapped with the stage name; no partial results are produced and
// no retries are attempted.
func (o *Orchestrator) Orchestrate(ctx context.Context, topicOrFile string, opts Options) (*Result, error) {
	if sub := o.subscribeDebug(); sub != "" {
		defer o.bus.Unsubscribe(sub)
	}

	sc := newSharedContext(topicOrFile)

	o.callbacks.phaseStart(StageAcquire)
	o.publish(event.NewStageChangeEvent(StageAcquire, false))
	cur, err := o.acquire(ctx, topicOrFile, opts, sc)
	if err != nil {
		return nil, errors.NewOrchestrationError(StageAcquire, err)
	}
	o.callbacks.phaseComplete(StageAcquire)
	o.publish(event.NewStageChangeEvent(StageAcquire, true))

	o.publish(event.NewHandoffEvent(agent.AgentSeedling, agent.AgentBark))
	o.callbacks.phaseStart(StageTechnical)
	o.publish(event.NewStageChangeEvent(StageTechnical, false))
	techFeedback, feasibility, err := o.review(ctx, o.technical, reviewPrompt(cur, sc, agent.AgentBark), sc)
	if err != nil {
		return nil, errors.NewOrchestrationError(StageTechnical, err)
	}
	o.callbacks.phaseComplete(StageTechnical)
	o.publish(event.NewStageChangeEvent(StageTechnical, true))

	o.publish(event.NewHandoffEvent(agent.AgentBark, agent.AgentCanopy))
	o.callbacks.phaseStart(StagePedagogical)
	o.publish(event.NewStageChangeEvent(StagePedagogical, false))
	pedFeedback, pedagogy, err := o.review(ctx, o.pedagogical, reviewPrompt(cur, sc, agent.AgentCanopy), sc)
	if err != nil {
		return nil, errors.NewOrchestrationError(StagePedagogical, err)
	}
	o.callbacks.phaseComplete(StagePedagogical)
	o.publish(event.NewStageChangeEvent(StagePedagogical, true))

	o.callbacks.phaseStart(StageMerge)
	o.publish(event.NewStageChangeEvent(StageMerge, false))
	all := make([]agent.Feedback, 0, len(techFeedback)+len(pedFeedback))
	all = append(all, techFeedback...)
	all = append(all, pedFeedback...)
	result := merge(cur, all)
	result.FeasibilityScore = feasibility
	result.PedagogyScore = pedagogy
	sc.Consensus = result.Success
	o.callbacks.phaseComplete(StageMerge)
	o.publish(event.NewStageChangeEvent(StageMerge, true))

	o.logger.Info("orchestration finished",
		"success", result.Success,
		"feedback", len(result.Feedback),
		"unresolved", len(result.UnresolvedIssues))
	return result, nil
}

// Generate runs only the generator stage: topic in, unreviewed curriculum
// out. Used by plant, which skips the reviewers.
func (o *Orchestrator) Generate(ctx context.Context, topic string) (*curriculum.Curriculum, error) {
	if sub := o.subscribeDebug(); sub != "" {
		defer o.bus.Unsubscribe(sub)
	}

	sc := newSharedContext(topic)
	o.callbacks.phaseStart(StageAcquire)
	cur, err := o.acquire(ctx, topic, Options{}, sc)
	if err != nil {
		return nil, errors.NewOrchestrationError(StageAcquire, err)
	}
	o.callbacks.phaseComplete(StageAcquire)
	return cur, nil
}

// acquire produces the curriculum under review: from disk when FromFile,
// otherwise by running the generator persona. A generator response without
// the mandatory structured tool invocation fails the stage.
func (o *Orchestrator) acquire(ctx context.Context, topicOrFile string, opts Options, sc *SharedContext) (*curriculum.Curriculum, error) {
	if opts.FromFile {
		o.callbacks.log("loading curriculum from " + topicOrFile)
		return curriculum.LoadFile(topicOrFile)
	}

	o.callbacks.log("generating curriculum for " + topicOrFile)
	prompt := fmt.Sprintf(
		"Design a learning curriculum for the topic: %s\n\n"+
			"Produce 4-6 ordered phases. Each phase needs learning objectives, "+
			"concrete deliverables with acceptance criteria, key concepts, and "+
			"an estimated hour count. Emit the plan with one create_curriculum call.",
		topicOrFile)

	turn, err := o.generator.Run(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	if turn.Curriculum == nil {
		return nil, errors.ErrNoToolInvocation
	}
	sc.record(agent.AgentSeedling,
		fmt.Sprintf("generated %q with %d phases", turn.Curriculum.Title, len(turn.Curriculum.Phases)))
	return turn.Curriculum, nil
}

// review runs one reviewer persona, forwards each finding to the feedback
// hook, and returns the findings plus the reviewer's score (defaulted when
// unreported).
func (o *Orchestrator) review(ctx context.Context, reviewer *agent.Agent, prompt string, sc *SharedContext) ([]agent.Feedback, int, error) {
	turn, err := reviewer.Run(ctx, prompt, nil)
	if err != nil {
		return nil, 0, err
	}

	for _, fb := range turn.Feedback {
		o.callbacks.feedback(fb)
		o.publish(event.NewFeedbackEvent(fb.Agent, string(fb.Kind), string(fb.Severity), fb.Message))
		sc.record(fb.Agent, fmt.Sprintf("[%s/%s on %s] %s", fb.Kind, fb.Severity, fb.Target, fb.Message))
	}

	score := turn.Score
	if score == 0 {
		score = defaultScore
	}
	return turn.Feedback, score, nil
}

// reviewPrompt serializes the curriculum for a reviewer. The pedagogical
// reviewer also sees the accumulated contribution log so it can weigh the
// technical findings.
func reviewPrompt(cur *curriculum.Curriculum, sc *SharedContext, reviewerName string) string {
	raw, _ := json.MarshalIndent(cur, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Review this curriculum (round %d):\n\n%s\n", sc.Round, raw)

	if reviewerName == agent.AgentCanopy && len(sc.Contributions[agent.AgentBark]) > 0 {
		b.WriteString("\nThe technical reviewer has already reported:\n")
		for _, entry := range sc.Contributions[agent.AgentBark] {
			b.WriteString("- " + entry + "\n")
		}
	}

	b.WriteString("\nReport each finding with provide_feedback, then give your overall score.")
	return b.String()
}

// merge partitions the combined feedback into applied changes and unresolved
// issues. Non-conflicting, non-critical findings are recorded as descriptive
// change strings only; the curriculum structure itself is not rewritten and
// the returned curriculum is a shallow copy of the input.
func merge(cur *curriculum.Curriculum, all []agent.Feedback) *Result {
	conflicts := detectConflicts(all)

	result := &Result{
		Curriculum: cur.ShallowCopy(),
		Feedback:   all,
	}

	hasBlocker := false
	for _, fb := range all {
		if fb.Kind == agent.KindBlocker {
			hasBlocker = true
		}

		conflicting := conflicts[fb.Target.GroupKey()]
		if conflicting || fb.Severity == agent.SeverityCritical {
			result.UnresolvedIssues = append(result.UnresolvedIssues, fb)
			continue
		}
		result.AppliedChanges = append(result.AppliedChanges,
			fmt.Sprintf("[%s] %s: %s", fb.Agent, fb.Target, fb.Message))
	}

	result.Success = len(result.UnresolvedIssues) == 0 && !hasBlocker
	return result
}

func (o *Orchestrator) publish(e event.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

// subscribeDebug forwards bus events to the OnDebug hook for one run.
// Returns the subscription id, or "" when debug forwarding is off.
func (o *Orchestrator) subscribeDebug() string {
	if !o.debug || o.bus == nil || o.callbacks.OnDebug == nil {
		return ""
	}
	return o.bus.SubscribeAll(func(e event.Event) {
		o.callbacks.OnDebug(e)
	})
}
