package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/linzhe/interview-forge/internal/bank"
	"github.com/linzhe/interview-forge/internal/config"
)

// ErrInvalidArgument marks caller mistakes detected before any remote call.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// MaxQuestions bounds a single generation request.
	MaxQuestions = 50
	// resumeExcerptLimit bounds the resume text embedded in prompts.
	resumeExcerptLimit = 2000
)

// completer is the slice of compose.Runnable the service needs. Tests inject
// fakes here.
type completer interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
	Stream(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.StreamReader[*schema.Message], error)
}

// Config controls generator behavior independent of model credentials.
type Config struct {
	// Cooldown is the minimum delay between successive remote calls, measured
	// from the end of the previous call.
	Cooldown time.Duration
}

// Request describes one generation call.
type Request struct {
	JobRole         string
	ExperienceLevel string
	Skills          []string
	NumQuestions    int
	QuestionTypes   []string
}

// PersonalizedRequest additionally conditions generation on a parsed resume.
type PersonalizedRequest struct {
	Request
	ResumeText      string
	ExtractedSkills []string
}

// Service generates interview questions, remote-first with a deterministic
// local fallback. The remote/local split is fixed at construction: when no
// usable model is configured every call goes straight to the question bank.
// After validation passes, Generate and GeneratePersonalized never fail.
type Service struct {
	questionBank *bank.Bank
	cooldown     time.Duration

	standard     completer
	personalized completer
	skills       completer

	mu       sync.Mutex
	lastCall time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewService wires the generator. A missing or rejected credential is not an
// error: the service degrades to local-only mode and logs why.
func NewService(ctx context.Context, questionBank *bank.Bank, aiCfg config.AIConfig, cfg Config) *Service {
	svc := &Service{
		questionBank: questionBank,
		cooldown:     cfg.Cooldown,
		now:          time.Now,
		sleep:        time.Sleep,
	}

	if !aiCfg.Enabled() {
		log.Println("[generator] no model credentials configured, using local question bank only")
		return svc
	}

	chatModel, err := aiCfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("[generator] model init failed, using local question bank only: %v", err)
		return svc
	}

	standard, err := compileChain(ctx, chatModel, generateSystemPrompt, generateUserPrompt)
	if err != nil {
		log.Printf("[generator] chain compile failed, using local question bank only: %v", err)
		return svc
	}

	personalized, err := compileChain(ctx, chatModel, generateSystemPrompt, personalizedUserPrompt)
	if err != nil {
		log.Printf("[generator] personalized chain compile failed, using local question bank only: %v", err)
		return svc
	}

	skills, err := compileChain(ctx, chatModel, skillSystemPrompt, skillUserPrompt)
	if err != nil {
		log.Printf("[generator] skill chain compile failed, using local question bank only: %v", err)
		return svc
	}

	svc.standard = standard
	svc.personalized = personalized
	svc.skills = skills
	log.Println("[generator] remote generation enabled")
	return svc
}

func compileChain(ctx context.Context, chatModel model.ChatModel, systemPrompt, userPrompt string) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// RemoteEnabled reports whether the service was constructed with a usable
// remote model.
func (s *Service) RemoteEnabled() bool {
	return s.standard != nil
}

// Generate returns up to NumQuestions questions for the given job parameters.
func (s *Service) Generate(ctx context.Context, req Request) ([]string, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if s.standard == nil {
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	msg, err := s.invoke(ctx, s.standard, standardInput(req))
	if err != nil {
		log.Printf("[generator] remote call failed, falling back to question bank: %v", err)
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	questions, err := ParseQuestions(msg.Content, req.NumQuestions)
	if err != nil || len(questions) == 0 {
		log.Printf("[generator] response parse failed, falling back to question bank: %v", err)
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	return questions, nil
}

// GeneratePersonalized conditions generation on resume text and previously
// extracted skills. Fallback behavior matches Generate.
func (s *Service) GeneratePersonalized(ctx context.Context, req PersonalizedRequest) ([]string, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, fmt.Errorf("%w: resume_text is required", ErrInvalidArgument)
	}

	if s.personalized == nil {
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	msg, err := s.invoke(ctx, s.personalized, personalizedInput(req))
	if err != nil {
		log.Printf("[generator] personalized remote call failed, falling back to question bank: %v", err)
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	questions, err := ParseQuestions(msg.Content, req.NumQuestions)
	if err != nil || len(questions) == 0 {
		log.Printf("[generator] personalized response parse failed, falling back to question bank: %v", err)
		return s.localQuestions(req.JobRole, req.ExperienceLevel, req.NumQuestions), nil
	}

	return questions, nil
}

// GenerateStream opens a streaming remote generation. It returns a nil reader
// without error when the service runs local-only or the stream cannot be
// opened; callers fall back to Generate in that case.
func (s *Service) GenerateStream(ctx context.Context, req Request) (*schema.StreamReader[*schema.Message], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if s.standard == nil {
		return nil, nil
	}

	s.waitForCooldown()
	reader, err := s.standard.Stream(ctx, standardInput(req))
	s.markCallDone()
	if err != nil {
		log.Printf("[generator] stream open failed: %v", err)
		return nil, nil
	}
	return reader, nil
}

// ExtractSkills asks the model for a comma-separated skill list from resume
// text. Returns nil without error in local-only mode so callers can merge the
// result unconditionally.
func (s *Service) ExtractSkills(ctx context.Context, resumeText string) ([]string, error) {
	if s.skills == nil {
		return nil, nil
	}

	text := resumeText
	if len(text) > resumeExcerptLimit {
		text = text[:resumeExcerptLimit]
	}

	msg, err := s.invoke(ctx, s.skills, map[string]any{"resume_text": text})
	if err != nil {
		return nil, fmt.Errorf("skill extraction failed: %w", err)
	}

	var skills []string
	for _, part := range strings.Split(msg.Content, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills, nil
}

// invoke runs one remote call under the rate-limit cooldown.
func (s *Service) invoke(ctx context.Context, chain completer, input map[string]any) (*schema.Message, error) {
	s.waitForCooldown()
	msg, err := chain.Invoke(ctx, input)
	s.markCallDone()
	if err != nil {
		return nil, err
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, errors.New("empty model response")
	}
	return msg, nil
}

// waitForCooldown blocks until the minimum inter-call delay has elapsed since
// the end of the previous remote call.
func (s *Service) waitForCooldown() {
	s.mu.Lock()
	last := s.lastCall
	s.mu.Unlock()

	if last.IsZero() || s.cooldown <= 0 {
		return
	}

	if elapsed := s.now().Sub(last); elapsed < s.cooldown {
		s.sleep(s.cooldown - elapsed)
	}
}

func (s *Service) markCallDone() {
	s.mu.Lock()
	s.lastCall = s.now()
	s.mu.Unlock()
}

// localQuestions never fails. When the bank resolves to an empty entry it
// substitutes a small templated default set.
func (s *Service) localQuestions(jobRole, experienceLevel string, limit int) []string {
	questions := s.questionBank.Questions(jobRole, experienceLevel, limit)
	if len(questions) > 0 {
		return questions
	}

	defaults := []string{
		fmt.Sprintf("Tell me about your experience with %s.", jobRole),
		fmt.Sprintf("What are your key strengths as a %s %s?", experienceLevel, jobRole),
		fmt.Sprintf("Describe a challenging project you worked on as a %s.", jobRole),
		fmt.Sprintf("How do you stay updated with the latest %s technologies?", jobRole),
		fmt.Sprintf("What tools and frameworks do you use in your %s work?", jobRole),
	}
	if len(defaults) > limit {
		defaults = defaults[:limit]
	}
	return defaults
}

func (r Request) validate() error {
	if strings.TrimSpace(r.JobRole) == "" {
		return fmt.Errorf("%w: job_role is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(r.ExperienceLevel) == "" {
		return fmt.Errorf("%w: experience_level is required", ErrInvalidArgument)
	}
	if len(r.Skills) == 0 {
		return fmt.Errorf("%w: at least one skill is required", ErrInvalidArgument)
	}
	if r.NumQuestions < 1 || r.NumQuestions > MaxQuestions {
		return fmt.Errorf("%w: num_questions must be between 1 and %d", ErrInvalidArgument, MaxQuestions)
	}
	return nil
}
