package cli

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
)

// fakeSettings keeps settings in memory.
type fakeSettings struct {
	settings    domain.BenchmarkSettings
	set         map[string]string
	validateErr error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{settings: domain.DefaultBenchmarkSettings(), set: make(map[string]string)}
}

func (f *fakeSettings) Get() (*domain.BenchmarkSettings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeSettings) Save(settings *domain.BenchmarkSettings) error {
	f.settings = *settings
	return nil
}

func (f *fakeSettings) Set(key, value string) error {
	switch key {
	case "reader.provider":
		provider := domain.ReaderProvider(value)
		if !provider.IsValid() {
			return errors.New("invalid reader provider")
		}
		f.settings.Reader.Provider = provider
		f.settings.Reader.Model = domain.DefaultReaderModels()[provider]
	case "reader.model":
		f.settings.Reader.Model = value
	case "reader.api_key":
		f.settings.Reader.APIKey = value
	case "reader.base_url":
		f.settings.Reader.BaseURL = value
	case "store.kind":
		if !domain.StoreKind(value).IsValid() {
			return errors.New("invalid store kind")
		}
		f.settings.Retriever.Store = domain.StoreKind(value)
	default:
		return domain.ErrInvalidInput
	}
	f.set[key] = value
	return nil
}

func (f *fakeSettings) Keys() []string {
	keys := []string{"store.kind", "reader.provider", "reader.model", "reader.api_key", "reader.base_url"}
	sort.Strings(keys)
	return keys
}

func (f *fakeSettings) Validate() error {
	return f.validateErr
}

func (f *fakeSettings) GetDefaults() domain.BenchmarkSettings {
	return domain.DefaultBenchmarkSettings()
}

type fakeValidator struct {
	err    error
	called *domain.ReaderSettings
}

func (v *fakeValidator) ValidateReader(settings *domain.ReaderSettings) error {
	v.called = settings
	return v.err
}

type fakeBenchmark struct {
	results *domain.RunResults
	err     error
	catalog *domain.Catalog
}

func (f *fakeBenchmark) Run(_ context.Context, catalog *domain.Catalog) (*domain.RunResults, error) {
	f.catalog = catalog
	return f.results, f.err
}

type fakeCorpus struct {
	report *domain.FetchReport
	err    error
	title  string
}

func (f *fakeCorpus) Collect(_ context.Context, title string) (*domain.FetchReport, error) {
	f.title = title
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeQA struct {
	result   *driving.AskResult
	err      error
	title    string
	question string
}

func (f *fakeQA) Ask(_ context.Context, title, question string) (*driving.AskResult, error) {
	f.title, f.question = title, question
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// testEnv records what the builder was asked for.
type testEnv struct {
	settings  *fakeSettings
	validator *fakeValidator
	benchmark *fakeBenchmark
	corpus    *fakeCorpus
	qa        *fakeQA

	built    *domain.BenchmarkSettings
	opts     BuildOptions
	closed   bool
	catalogs [][2]string
	buildErr error
}

func exampleReport() *domain.FetchReport {
	return &domain.FetchReport{
		Title:      "Example Novel",
		Candidates: 3,
		Excluded:   []string{"List of Example Novel characters"},
		Skips:      []domain.FetchSkip{{Title: "Example Novel (film)", Reason: "timeout"}},
		Units: []domain.TextUnit{
			{Sequence: 1, Title: "Example Novel", RawText: "A novel about a whaling voyage."},
		},
	}
}

func exampleResults() *domain.RunResults {
	results := domain.NewRunResults("run-1", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	results.AddBook(domain.BookMetricRecord{DocumentID: "B1", Title: "Example Novel", NumDocuments: 2, IndexBuildSeconds: 1.5})
	results.AddBook(domain.BookMetricRecord{DocumentID: "B2", Title: "Unknown Book"})
	results.AddQuestion(domain.QAMetricRecord{DocumentID: "B1", Question: "Who?", Answer: "Ahab", Probability: 0.8, AnswerSeconds: 0.5})
	results.SetLocation("results/in-memory-document-store/lexical-overlap/top-7-retriever/50-wiki-results")
	return results
}

// setupTestServices installs fakes and returns them with a cleanup that
// restores the package state and the flag values.
func setupTestServices() (*testEnv, func()) {
	env := &testEnv{
		settings:  newFakeSettings(),
		validator: &fakeValidator{},
		benchmark: &fakeBenchmark{results: exampleResults()},
		corpus:    &fakeCorpus{report: exampleReport()},
		qa:        &fakeQA{},
	}

	builder := func(settings domain.BenchmarkSettings, opts BuildOptions) (*Services, error) {
		if env.buildErr != nil {
			return nil, env.buildErr
		}
		env.built = &settings
		env.opts = opts
		return &Services{
			Benchmark: env.benchmark,
			Corpus:    env.corpus,
			QA:        env.qa,
			LoadCatalog: func(_ context.Context, books, questions string) (*domain.Catalog, error) {
				env.catalogs = append(env.catalogs, [2]string{books, questions})
				return &domain.Catalog{Books: []domain.Book{{DocumentID: "B1", Title: "Example Novel"}}}, nil
			},
			Close: func() { env.closed = true },
		}, nil
	}

	prevSettings, prevValidator, prevBuild := settingsService, readerValidator, buildServices
	SetServices(env.settings, env.validator, builder)

	return env, func() {
		settingsService, readerValidator, buildServices = prevSettings, prevValidator, prevBuild
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// resetFlags restores flag variables, which cobra keeps between executions.
func resetFlags() {
	runOpts.books = "books.csv"
	runOpts.questions = "questions.csv"
	runOpts.output = "results"
	runOpts.store = ""
	runOpts.reader = ""
	runOpts.model = ""
	runOpts.topKRetriever = 0
	runOpts.topKReader = 0
	runOpts.searchResults = 0
	runOpts.formats = nil
	fetchJSON = false
	askPassages = false
	askReader = ""
	askStore = ""
	verbose = false
}
