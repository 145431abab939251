package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTransactionLocked = errors.New("the transaction can only be changed while it is pending")

var transitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "How many workflow transitions were requested, partitioned by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// Metrics returns the collectors of this package.
func Metrics() []prometheus.Collector {
	return []prometheus.Collector{transitions}
}

// Notification describes a transition that happened.
type Notification struct {
	TransactionCode string
	Event           Event
	Status          models.WorkflowStatus
	Stage           int
	StageName       string
	Actor           string
	Comment         string
	Amount          decimal.Decimal // sum of the to amounts
	Recipients      []string
}

// Notifier is informed after every committed transition.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// JournalUploader posts encumbrance journals to the ERP.
type JournalUploader interface {
	UploadJournal(ctx context.Context, j oracle.Journal) (string, error)
}

// Service moves transactions through their approval workflow.
type Service struct {
	db        *gorm.DB
	templates Templates
	notifier  Notifier
	journals  JournalUploader
	now       func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithJournalUploader(u JournalUploader) Option {
	return func(s *Service) { s.journals = u }
}

func NewService(db *gorm.DB, templates Templates, opts ...Option) *Service {
	s := &Service{
		db:        db,
		templates: templates,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Templates returns the templates the service uses.
func (s *Service) Templates() Templates {
	return s.templates
}

// Instance returns the workflow instance of the transaction. Transactions
// that were never submitted get an unsaved pending instance.
func (s *Service) Instance(ctx context.Context, transaction models.Transaction) (models.WorkflowInstance, error) {
	instance, ok, err := models.FindWorkflowInstance(s.db.WithContext(ctx), transaction.ID)
	if err != nil {
		return models.WorkflowInstance{}, err
	}

	if !ok {
		template := s.templates.ForCode(transaction.Code)
		return models.WorkflowInstance{
			TransactionID: transaction.ID,
			Template:      template.Name,
			Status:        models.WorkflowPending,
			TotalStages:   len(template.Stages),
		}, nil
	}

	return instance, nil
}

func (s *Service) Submit(ctx context.Context, id uuid.UUID, actor, comment string) (models.WorkflowInstance, error) {
	return s.transition(ctx, id, EventSubmit, actor, comment)
}

func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor, comment string) (models.WorkflowInstance, error) {
	return s.transition(ctx, id, EventApprove, actor, comment)
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID, actor, comment string) (models.WorkflowInstance, error) {
	return s.transition(ctx, id, EventReject, actor, comment)
}

func (s *Service) Reopen(ctx context.Context, id uuid.UUID, actor, comment string) (models.WorkflowInstance, error) {
	return s.transition(ctx, id, EventReopen, actor, comment)
}

// Transition applies event to the transaction with the given id.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, event Event, actor, comment string) (models.WorkflowInstance, error) {
	return s.transition(ctx, id, event, actor, comment)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, event Event, actor, comment string) (models.WorkflowInstance, error) {
	var (
		transaction models.Transaction
		instance    models.WorkflowInstance
		lines       []models.TransferLine
		template    Template
		from        State
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, id).Error; err != nil {
			return err
		}

		locked := tx
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var found bool
		var err error
		instance, found, err = models.FindWorkflowInstance(locked, transaction.ID)
		if err != nil {
			return err
		}

		lines, err = transaction.Lines(tx)
		if err != nil {
			return err
		}

		template = s.templates.ForCode(transaction.Code)
		if found && event != EventSubmit {
			if t, ok := s.templates.Find(instance.Template); ok {
				template = t
			}
		}

		stages := len(template.Stages)
		if found && event != EventSubmit && instance.TotalStages > 0 {
			stages = instance.TotalStages
		}

		from = StateOf(instance)
		to, err := Next(from, event, stages)
		if err != nil {
			return err
		}

		if event == EventSubmit {
			if err := ValidateSubmission(tx, transaction, lines); err != nil {
				return err
			}
		}

		if !found {
			instance = models.WorkflowInstance{TransactionID: transaction.ID}
		}
		instance.Template = template.Name
		instance.TotalStages = stages
		instance.Status = to.Status
		instance.CurrentStage = to.Stage

		if err := tx.Save(&instance).Error; err != nil {
			return err
		}

		return tx.Create(&models.ApprovalAction{
			WorkflowInstanceID: instance.ID,
			Action:             string(event),
			Stage:              from.Stage,
			Actor:              actor,
			Comment:            comment,
			FromStatus:         from.Status,
			ToStatus:           to.Status,
		}).Error
	})
	if err != nil {
		transitions.WithLabelValues(string(event), "failed").Inc()
		return models.WorkflowInstance{}, err
	}

	transitions.WithLabelValues(string(event), "applied").Inc()
	log.Info().
		Str("transaction", transaction.Code).
		Str("action", string(event)).
		Str("status", string(instance.Status)).
		Int("stage", instance.CurrentStage).
		Str("actor", actor).
		Msg("workflow transition")

	if id := s.postJournal(ctx, transaction, lines, event, from, instance.ID); id != "" {
		instance.JournalRequestID = id
	}
	s.notify(ctx, transaction, lines, event, instance, template, actor, comment)

	return instance, nil
}

// postJournal uploads the journal for the transition and returns the
// request id of the upload. Failures are logged, the transition stays
// committed.
func (s *Service) postJournal(ctx context.Context, transaction models.Transaction, lines []models.TransferLine, event Event, from State, instance uuid.UUID) string {
	if s.journals == nil {
		return ""
	}

	j, ok := BuildJournal(transaction, lines, event, from, s.now())
	if !ok {
		return ""
	}

	id, err := s.journals.UploadJournal(ctx, j)
	if err != nil {
		log.Error().Str("transaction", transaction.Code).Str("action", string(event)).Err(err).Msg("journal upload failed")
		return ""
	}

	// Only the request id is written, the state may have moved on during the upload.
	err = s.db.WithContext(ctx).
		Model(&models.WorkflowInstance{}).
		Where("id = ?", instance).
		UpdateColumn("journal_request_id", id).Error
	if err != nil {
		log.Error().Str("transaction", transaction.Code).Str("request-id", id).Err(err).Msg("could not store journal request id")
	}
	return id
}

func (s *Service) notify(ctx context.Context, transaction models.Transaction, lines []models.TransferLine, event Event, instance models.WorkflowInstance, template Template, actor, comment string) {
	if s.notifier == nil {
		return
	}

	amount := decimal.Zero
	for _, l := range lines {
		amount = amount.Add(l.ToAmount)
	}

	n := Notification{
		TransactionCode: transaction.Code,
		Event:           event,
		Status:          instance.Status,
		Stage:           instance.CurrentStage,
		Actor:           actor,
		Comment:         comment,
		Amount:          amount,
	}

	if instance.Status == models.WorkflowInProgress {
		n.Recipients = template.Recipients(instance.CurrentStage)
		if instance.CurrentStage <= len(template.Stages) {
			n.StageName = template.Stages[instance.CurrentStage-1].Name
		}
	}

	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Warn().Str("transaction", transaction.Code).Err(err).Msg("workflow notification failed")
	}
}
