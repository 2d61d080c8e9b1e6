// Command fightbot runs a scripted debate between two language-model
// personas and records the exchange.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FightBot/pkg/bot"
	"FightBot/pkg/config"
	"FightBot/pkg/debate"
	"FightBot/pkg/display"
	"FightBot/pkg/llm"
	"FightBot/pkg/logger"
	"FightBot/pkg/persona"
	"FightBot/pkg/recorder"
	"FightBot/pkg/topics"
)

func main() {
	var (
		configPath  = flag.String("config", "config.json", "path to the configuration file")
		initConfig  = flag.Bool("init-config", false, "write a starter config file and exit")
		listTopics  = flag.Bool("list-topics", false, "list catalog topics and exit")
		listPersona = flag.Bool("list-personas", false, "list personalities and exit")
		search      = flag.String("search", "", "search topics by keyword and exit")

		topicID  = flag.String("topic", "", "debate topic id from the catalog")
		subject  = flag.String("subject", "", "free-form debate subject (with -pro and -con)")
		proPos   = flag.String("pro", "", "position the first bot supports")
		conPos   = flag.String("con", "", "position the second bot supports")
		nameA    = flag.String("name-a", "Pro", "name of the first bot")
		nameB    = flag.String("name-b", "Con", "name of the second bot")
		personaA = flag.String("persona-a", "emotional", "personality id for the first bot")
		personaB = flag.String("persona-b", "logical", "personality id for the second bot")
		style    = flag.String("style", "casual", "debate style id")
		rounds   = flag.Int("rounds", -1, "max rounds (0 = unlimited, -1 = config default)")
		mailbox  = flag.Bool("mailbox", false, "run agents as mailbox workers instead of direct calls")
		verdict  = flag.Bool("verdict", false, "ask for a judge verdict after a completed debate")
	)
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefault(*configPath); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s, fill in your API key\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		fatal(err)
	}
	defer log.Sync()

	if code := run(cfg, log, runOptions{
		listTopics:  *listTopics,
		listPersona: *listPersona,
		search:      *search,
		topicID:     *topicID,
		subject:     *subject,
		proPos:      *proPos,
		conPos:      *conPos,
		nameA:       *nameA,
		nameB:       *nameB,
		personaA:    *personaA,
		personaB:    *personaB,
		style:       *style,
		rounds:      *rounds,
		mailbox:     *mailbox,
		verdict:     *verdict,
	}); code != 0 {
		os.Exit(code)
	}
}

type runOptions struct {
	listTopics  bool
	listPersona bool
	search      string
	topicID     string
	subject     string
	proPos      string
	conPos      string
	nameA       string
	nameB       string
	personaA    string
	personaB    string
	style       string
	rounds      int
	mailbox     bool
	verdict     bool
}

func buildLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.LogDir != "" {
		return logger.New(cfg.LogDir, cfg.LogLevel)
	}
	return logger.NewConsole(cfg.LogLevel), nil
}

func run(cfg *config.Config, log *logger.Logger, opts runOptions) int {
	personaCatalog, err := persona.Load(cfg.PersonalitiesFile, log)
	if err != nil {
		fatal(err)
	}
	topicCatalog, err := topics.Load(cfg.TopicsFile, log)
	if err != nil {
		fatal(err)
	}

	switch {
	case opts.listPersona:
		printPersonalities(personaCatalog)
		return 0
	case opts.listTopics:
		printTopics(topicCatalog.List(topics.Filter{}))
		return 0
	case opts.search != "":
		printTopics(topicCatalog.Search(opts.search))
		return 0
	}

	subject, pro, con, err := resolveTopic(topicCatalog, opts)
	if err != nil {
		fatal(err)
	}

	client := llm.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.Model, cfg.Provider, log,
		llm.WithSampling(cfg.Temperature, cfg.TopP, cfg.MaxTokens),
		llm.WithTimeout(cfg.RequestTimeout()),
	)

	rec, err := recorder.New(cfg.TranscriptDir, log)
	if err != nil {
		fatal(err)
	}

	factory := bot.NewFactory(personaCatalog, client, rec, cfg.HistoryWindow, log)
	agentA, agentB, err := factory.CreatePair(
		bot.Spec{Name: opts.nameA, Topic: subject, Position: pro, PersonalityID: opts.personaA, StyleID: opts.style},
		bot.Spec{Name: opts.nameB, Topic: subject, Position: con, PersonalityID: opts.personaB, StyleID: opts.style},
	)
	if err != nil {
		fatal(err)
	}

	maxRounds := cfg.MaxRounds
	if opts.rounds >= 0 {
		maxRounds = opts.rounds
	}

	renderer := display.NewRenderer(os.Stdout, opts.nameA, opts.nameB)
	renderer.Banner(subject, maxRounds)

	session := debate.NewSession(agentA, agentB, factory.OpeningPrompt(opts.style), log,
		debate.WithMaxRounds(maxRounds),
		debate.WithPacing(cfg.PacingDelay()),
		debate.WithRecorder(rec),
		debate.WithObserver(renderer.Turn),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *debate.Result
	if opts.mailbox {
		result = session.RunMailbox(ctx)
	} else {
		result = session.Run(ctx)
	}
	renderer.Report(result)

	if opts.verdict && result.Status == debate.StatusCompleted {
		// The judge call gets a fresh context: the session one may
		// already be cancelled.
		text, err := result.Verdict(context.Background(), client)
		if err != nil {
			log.Warnf("verdict failed: %v", err)
		} else {
			renderer.Verdict(text)
		}
	}

	if result.Status == debate.StatusErrored {
		return 1
	}
	return 0
}

// resolveTopic picks the subject and positions from either the catalog or
// the free-form flags.
func resolveTopic(catalog *topics.Catalog, opts runOptions) (subject, pro, con string, err error) {
	if opts.topicID != "" {
		t, err := catalog.Get(opts.topicID)
		if err != nil {
			return "", "", "", err
		}
		return t.Topic, t.Position1, t.Position2, nil
	}
	if opts.subject == "" || opts.proPos == "" || opts.conPos == "" {
		return "", "", "", fmt.Errorf("either -topic or all of -subject, -pro, -con are required")
	}
	return opts.subject, opts.proPos, opts.conPos, nil
}

func printPersonalities(catalog *persona.Catalog) {
	all := catalog.Personalities()
	fmt.Println("Available personalities:")
	for _, id := range catalog.PersonalityIDs() {
		p := all[id]
		fmt.Printf("  %-12s %s: %s\n", id, p.Name, p.Description)
	}
	fmt.Println("\nAvailable debate styles:")
	for _, id := range catalog.StyleIDs() {
		fmt.Printf("  %s\n", id)
	}
}

func printTopics(list []topics.Topic) {
	if len(list) == 0 {
		fmt.Println("No topics available.")
		return
	}
	for _, t := range list {
		fmt.Printf("  %-20s [%s/%s] %s\n", t.ID, t.Category, t.Difficulty, t.Topic)
		fmt.Printf("      A: %s\n      B: %s\n", t.Position1, t.Position2)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fightbot:", err)
	os.Exit(1)
}
