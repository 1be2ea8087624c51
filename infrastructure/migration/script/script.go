package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/internal/usecases/authenticating"
	"github.com/margareth/analytics-api/pkg/log"
	"github.com/margareth/analytics-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

var (
	demoServices = []struct {
		Name  string
		Price float64
	}{
		{"Corte de Cabelo", 80},
		{"Coloração", 250},
		{"Escova", 60},
		{"Hidratação", 120},
		{"Manicure", 45},
		{"Progressiva", 380},
	}
	demoAgeGroups       = []string{"18-25", "26-35", "36-45", "46+", domain.UnknownCategory}
	demoHairTypes       = []string{"Liso", "Ondulado", "Cacheado", "Crespo"}
	demoVisitFrequency  = []string{"Semanal", "Quinzenal", "Mensal"}
	demoSpendingRanges  = []string{"Até R$100", "R$100-300", "Acima de R$300"}
	demoStartTimes      = []string{"09:00", "10:30", "13:00", "14:00", "15:30", "17:00"}
	demoCancelationRate = 0.12
)

type seedRecords struct {
	Users        []domain.User
	Appointments []domain.Appointment
}

// buildSeed gera clientes e agendamentos de demonstração para os últimos days dias
func buildSeed(r *rand.Rand, today time.Time, days, clients int) seedRecords {
	records := seedRecords{}

	for i := range clients {
		email := fmt.Sprintf("cliente%03d@margareth.com", i+1)
		records.Users = append(records.Users, domain.User{
			ID:               fmt.Sprintf("user-%03d", i+1),
			Email:            &email,
			ProfileCompleted: r.Float64() < 0.8,
			AgeGroup:         pick(r, demoAgeGroups),
			HairType:         pick(r, demoHairTypes),
			VisitFrequency:   pick(r, demoVisitFrequency),
			SpendingRange:    pick(r, demoSpendingRanges),
		})
	}

	for day := range days {
		date := today.AddDate(0, 0, -day).Format(time.DateOnly)
		for range 2 + r.IntN(5) {
			service := demoServices[r.IntN(len(demoServices))]
			amount := service.Price
			status := domain.AppointmentStatusConfirmed
			if r.Float64() < demoCancelationRate {
				status = domain.AppointmentStatusCanceled
			}

			records.Appointments = append(records.Appointments, domain.Appointment{
				Date:          date,
				Status:        status,
				Service:       &service.Name,
				TotalAmount:   &amount,
				CustomerEmail: records.Users[r.IntN(len(records.Users))].Email,
				StartTime:     pick(r, demoStartTimes),
			})
		}
	}

	return records
}

func pick(r *rand.Rand, values []string) *string {
	value := values[r.IntN(len(values))]
	return &value
}

// insertSeed grava os registros de demonstração em uma única transação
func insertSeed(ctx context.Context, conn *database.Connection, records seedRecords) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		users := squirrel.Insert("users").
			Columns(domain.UserFields...).
			PlaceholderFormat(conn.Placeholder())
		for _, u := range records.Users {
			users = users.Values(u.ID, u.Email, u.ProfileCompleted, u.AgeGroup, u.HairType, u.VisitFrequency, u.SpendingRange)
		}
		if _, err := users.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("erro ao inserir clientes: %w", err)
		}

		for start := 0; start < len(records.Appointments); start += 200 {
			end := min(start+200, len(records.Appointments))

			appointments := squirrel.Insert("appointments").
				Columns(append([]string{"id"}, domain.AppointmentFields...)...).
				PlaceholderFormat(conn.Placeholder())
			for _, a := range records.Appointments[start:end] {
				id, err := utils.GenerateID()
				if err != nil {
					return err
				}
				appointments = appointments.Values(id, a.Date, a.Status, a.Service, a.TotalAmount, a.CustomerEmail, a.StartTime)
			}

			if _, err := appointments.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("erro ao inserir agendamentos: %w", err)
			}
		}

		return nil
	})
}

func main() {
	var (
		seedDays     = flag.Int("seed-days", 0, "gera agendamentos de demonstração para os últimos N dias")
		seedClients  = flag.Int("seed-clients", 40, "quantidade de clientes de demonstração")
		hashAdminKey = flag.String("hash-admin-key", "", "imprime o valor de ADMIN_KEY_HASH para a chave informada")
		issueToken   = flag.String("issue-token", "", "imprime um token do dashboard para o e-mail informado")
		tokenRole    = flag.String("token-role", domain.RoleViewer, "papel do token emitido (admin ou viewer)")
		tokenTTL     = flag.Duration("token-ttl", 24*time.Hour, "validade do token emitido")
	)
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	if *hashAdminKey != "" {
		hashed, err := authenticating.HashAdminKey(*hashAdminKey)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao gerar hash da chave")
		}
		fmt.Println(hashed)
		return
	}

	if *issueToken != "" {
		token, err := authenticating.NewService(cfg).IssueToken(*issueToken, *tokenRole, *tokenTTL)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao emitir token")
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	startTime := time.Now()

	conn, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar o schema")
	}
	logrus.WithField("driver", conn.Driver()).Info("Schema aplicado com sucesso")

	if *seedDays <= 0 {
		return
	}
	if *seedClients <= 0 {
		logrus.Fatal("seed-clients deve ser maior que zero")
	}

	now := time.Now().In(cfg.Location())
	r := rand.New(rand.NewPCG(uint64(now.Unix()), 42))
	records := buildSeed(r, now, *seedDays, *seedClients)

	if err := insertSeed(ctx, conn, records); err != nil {
		logrus.WithError(err).Fatal("Erro ao gerar dados de demonstração")
	}

	logrus.WithFields(logrus.Fields{
		"clients":      len(records.Users),
		"appointments": len(records.Appointments),
		"duration":     time.Since(startTime).String(),
	}).Info("Carga de demonstração concluída")
}
