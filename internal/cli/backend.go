package cli

import (
	"context"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/config"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/memory"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/postgres"
	redisinfra "github.com/BlockSyncLab/FGVGAMEBA/internal/infra/redis"
	transport "github.com/BlockSyncLab/FGVGAMEBA/internal/transport/http"
	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// backend holds the stores selected by configuration: Postgres when a URL is
// set, otherwise seeded in-memory stores. Redis, when configured, caches
// questions and mirrors the audit trail into a stream.
type backend struct {
	users     app.UserRepository
	questions app.QuestionRepository
	campaigns app.CampaignRepository
	audit     app.AuditSink
	auditLog  app.AuditReader

	pool          *pgxpool.Pool
	redis         *redis.Client
	userStore     *postgres.UserStore
	campaignStore *postgres.CampaignStore
	questionStore *postgres.QuestionStore
	questionCache *redisinfra.QuestionRepository
}

func openBackend(ctx context.Context, cfg config.Config, loc *time.Location) (*backend, error) {
	b := &backend{}
	var loader memory.QuestionLoader

	if cfg.Postgres.URL != "" {
		if err := RunMigrations(ctx, cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		b.pool = pool
		b.userStore = postgres.NewUserStore(pool)
		b.campaignStore = postgres.NewCampaignStore(pool)
		b.users = b.userStore
		b.campaigns = b.campaignStore
		sink := postgres.NewAuditSink(pool)
		b.audit, b.auditLog = sink, sink
		b.questionStore = postgres.NewQuestionStore(pool)
		loader = b.questionStore
	} else {
		glog.Warning("postgres not configured, using in-memory sample data")
		start := time.Now().In(loc)
		b.users = memory.NewUserStore(sampleUsers()...)
		b.campaigns = memory.NewCampaignStore(&domain.CampaignConfig{
			ID:           1,
			StartDate:    time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
			DurationDays: domain.SlotCount,
			Active:       true,
		})
		log := memory.NewAuditLog()
		b.audit, b.auditLog = log, log
		loader = memory.NewStaticQuestionLoader(sampleQuestions())
	}

	ttl := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.questionCache = redisinfra.NewQuestionRepository(b.redis, loader, config.TTLDuration(cfg.Redis.TTL, ttl))
		b.questions = b.questionCache
		stream := redisinfra.NewAuditStream(b.redis, cfg.Audit.StreamMaxLen)
		b.audit = auditTee{b.audit, stream}
		// the stream holds the recent tail, which is all the audit listing reads
		b.auditLog = stream
	} else {
		b.questions = memory.NewQuestionRepository(loader, ttl)
	}
	return b, nil
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// services builds the use cases on top of b.
func (b *backend) services(loc *time.Location) transport.Services {
	clock := app.NewCampaignClock(b.campaigns, loc)
	ranking := app.NewRankingService(b.users, clock)
	feed := app.NewRankingFeed(ranking)
	answers := app.NewAnswerService(b.users, b.questions, clock, b.audit)
	answers.Observe(feed)
	return transport.Services{
		Answers:   answers,
		Questions: app.NewQuestionService(b.users, b.questions, clock),
		Ranking:   ranking,
		Campaign:  app.NewCampaignService(b.campaigns, clock),
		Feed:      feed,
		Audit:     b.auditLog,
	}
}

// auditTee records to every sink; the first sink is the durable one.
type auditTee []app.AuditSink

func (t auditTee) RecordViolation(ctx context.Context, v domain.SecurityViolation) error {
	var first error
	for _, sink := range t {
		if err := sink.RecordViolation(ctx, v); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func sampleQuestions() []domain.Question {
	texts := []string{
		"Qual é a capital da Bahia?",
		"Quanto é 7 x 8?",
		"Qual planeta é conhecido como planeta vermelho?",
		"Quem escreveu Capitães da Areia?",
		"Qual é o maior bioma do Brasil?",
		"Quanto é 144 dividido por 12?",
		"Em que ano o Brasil proclamou a independência?",
		"Qual é o símbolo químico da água?",
		"Qual rio banha Juazeiro e Petrolina?",
		"Qual é a raiz quadrada de 81?",
	}
	choices := [][domain.ChoiceCount]string{
		{"Salvador", "Feira de Santana", "Ilhéus", "Recife", "Aracaju"},
		{"54", "56", "58", "64", "48"},
		{"Vênus", "Júpiter", "Marte", "Saturno", "Mercúrio"},
		{"Machado de Assis", "Clarice Lispector", "Graciliano Ramos", "Jorge Amado", "Castro Alves"},
		{"Cerrado", "Caatinga", "Pantanal", "Mata Atlântica", "Amazônia"},
		{"10", "11", "12", "14", "13"},
		{"1808", "1822", "1889", "1500", "1888"},
		{"O2", "CO2", "NaCl", "HO", "H2O"},
		{"Rio São Francisco", "Rio Paraguaçu", "Rio Amazonas", "Rio Tietê", "Rio Negro"},
		{"8", "7", "9", "10", "11"},
	}
	correct := []int{1, 2, 3, 4, 5, 3, 2, 5, 1, 3}
	hints := []string{
		"Fica no litoral",
		"Tabuada do 7",
		"Quarto planeta a partir do Sol",
		"Autor baiano",
		"Floresta tropical",
		"Uma dúzia",
		"Dom Pedro I",
		"Dois hidrogênios",
		"Rio da integração nacional",
		"Nove vezes nove",
	}
	qs := make([]domain.Question, 0, len(texts))
	for i := range texts {
		qs = append(qs, domain.Question{
			ID:            int64(i + 1),
			Text:          texts[i],
			Hint:          hints[i],
			Choices:       choices[i],
			CorrectChoice: correct[i],
		})
	}
	return qs
}

func sampleUsers() []domain.User {
	students := []struct {
		login, class, school string
	}{
		{"ana", "3A", "Colégio Central"},
		{"bruno", "3A", "Colégio Central"},
		{"carla", "3B", "Colégio Central"},
		{"diego", "3B", "Colégio Central"},
		{"elis", "2A", "Escola Norte"},
	}
	users := make([]domain.User, 0, len(students))
	for i, s := range students {
		u := domain.User{ID: int64(i + 1), Login: s.login, Class: s.class, School: s.school}
		for n := 1; n <= domain.SlotCount; n++ {
			qid := int64(n)
			u.Slots[n-1].QuestionID = &qid
		}
		users = append(users, u)
	}
	return users
}
