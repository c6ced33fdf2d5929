package chat

import (
	"anbsupport/app/client/llm"
	"anbsupport/app/config"
	"anbsupport/app/service/catalog"
	"anbsupport/app/service/intent"
	"anbsupport/app/service/notify"
	"anbsupport/app/service/state"
	"anbsupport/app/util/markdown"
	"context"
	"errors"
	"html"
	"log/slog"
	"time"

	"github.com/samber/do"
)

const Apology = "⚠️ Sorry, there was an error processing your request. Please try again."

const unknownModel = "iPhone (model to be confirmed)"

var errEmptyCompletion = errors.New("model returned an empty reply")

type Service struct {
	store      *state.Store
	classifier *intent.Classifier
	catalog    *catalog.Catalog
	model      llm.Client
	renderer   *markdown.Renderer
	notifier   *notify.Service

	now func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		do.MustInvoke[*state.Store](di),
		intent.NewClassifier(cfg.Admin.TriggerPhrase),
		do.MustInvoke[*catalog.Catalog](di),
		do.MustInvoke[llm.Client](di),
		do.MustInvoke[*notify.Service](di),
	), nil
}

func NewService(
	store *state.Store,
	classifier *intent.Classifier,
	catalog *catalog.Catalog,
	model llm.Client,
	notifier *notify.Service,
) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		catalog:    catalog,
		model:      model,
		renderer:   markdown.New(),
		notifier:   notifier,
		now:        time.Now,
	}
}

// Reply runs one message through classification, state updates and, for
// unmatched messages, the model. It always produces an HTML reply.
func (s *Service) Reply(ctx context.Context, sessionID, message string) string {
	start := time.Now()

	msg := intent.Normalize(message)
	in := s.classifier.Classify(msg)

	var (
		reply   string
		history []state.Message
		events  []notify.Event
	)

	s.store.Do(sessionID, s.now(), func(sess *state.Session, ledger *state.Ledger) {
		if in.Kind == intent.KindFallback {
			history = sess.History()
			return
		}
		reply, events = s.handle(sess, ledger, in, msg)
	})

	for _, event := range events {
		s.notifier.Add(event)
	}

	if in.Kind == intent.KindFallback {
		reply = s.askModel(ctx, sessionID, history, msg)
	}

	var fired string
	s.store.Do(sessionID, s.now(), func(sess *state.Session, _ *state.Ledger) {
		now := s.now()
		sess.AddTurn(state.RoleUser, msg, now)
		sess.AddTurn(state.RoleAssistant, reply, now)
		fired, _ = sess.TakeFired()
	})

	if fired != "" {
		reply = "**" + fired + "**\n\n" + reply
	}

	slog.Debug("Processed chat message",
		"session", sessionID,
		"intent", in.Kind.String(),
		"canned", in.Kind.Canned(),
		"reminder_delivered", fired != "",
		"duration", time.Since(start),
	)

	return s.render(reply)
}

func (s *Service) handle(sess *state.Session, ledger *state.Ledger, in intent.Intent, msg string) (string, []notify.Event) {
	now := s.now()

	switch in.Kind {
	case intent.KindAdminReport:
		slog.Info("Sales report requested", "session", sess.ID)
		return ledger.Report(now), nil

	case intent.KindPayment:
		sale, match := ledger.ConfirmPaid(sess.ID, in.Details, now)
		switch match {
		case state.MatchPending:
			return s.catalog.PaymentReply(sale.Item, sale.Amount, true), []notify.Event{saleEvent(notify.KindPayment, sale)}
		case state.MatchLayBy:
			return s.catalog.InstallmentPaymentReply(sale.Item, sale.Amount, sale.Installments),
				[]notify.Event{saleEvent(notify.KindInstallment, sale)}
		default:
			return s.catalog.PaymentReply(sale.Item, sale.Amount, false), []notify.Event{saleEvent(notify.KindUnmatchedPay, sale)}
		}

	case intent.KindReminder:
		sess.SetReminder(now.Add(in.Delay), in.Label)
		return s.catalog.ReminderReply(in.Amount, in.Unit, in.Label), nil

	case intent.KindPicture:
		return s.catalog.PictureReply(), nil

	case intent.KindPrice:
		return s.catalog.PriceReply(), nil

	case intent.KindPromo:
		return s.catalog.PromoReply(), nil

	case intent.KindRecommend:
		return s.catalog.RecommendReply(), nil

	case intent.KindBuy:
		product, known := s.catalog.FindModel(msg)
		item, amount := s.saleTerms(ledger, product, known)
		sale := ledger.RecordPending(sess.ID, item, amount, now)
		return s.catalog.BuyReply(product, known), []notify.Event{saleEvent(notify.KindOrder, sale)}

	case intent.KindInstallment:
		product, known := s.catalog.FindModel(msg)
		item, amount := s.saleTerms(ledger, product, known)
		sale := ledger.RecordPromised(sess.ID, item, amount, now)
		return s.catalog.InstallmentReply(product, known), []notify.Event{saleEvent(notify.KindLayBy, sale)}
	}

	return Apology, nil
}

func (s *Service) saleTerms(ledger *state.Ledger, product catalog.Product, known bool) (string, int) {
	if !known {
		return unknownModel, ledger.DefaultAmount()
	}
	return product.Model, s.catalog.Price(product)
}

// askModel runs without the store lock held.
func (s *Service) askModel(ctx context.Context, sessionID string, history []state.Message, msg string) string {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.catalog.SystemPrompt(s.now())})

	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == state.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: msg})

	reply, err := s.model.Complete(ctx, messages)
	if err == nil && reply == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		slog.Error("Model call failed", "session", sessionID, "error", err)
		return Apology
	}

	return reply
}

func (s *Service) render(reply string) string {
	result, err := s.renderer.Render(reply)
	if err != nil {
		slog.Warn("Falling back to escaped reply", "error", err)
		return html.EscapeString(reply)
	}
	return result
}

func saleEvent(kind notify.Kind, sale state.Sale) notify.Event {
	return notify.Event{
		Kind:      kind,
		SessionID: sale.SessionID,
		SaleID:    sale.ID,
		Item:      sale.Item,
		Amount:    sale.Amount,
	}
}
