package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	html "github.com/gofiber/template/html/v2"

	"pawmart/internal/domain"
	applog "pawmart/internal/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// SendTimeout bounds a single delivery attempt.
const SendTimeout = 10 * time.Second

// Mailer renders messages and hands them to a Sender in the background.
// Delivery failures are logged and never reach the caller.
type Mailer struct {
	sender Sender
	engine *html.Engine
	from   string
	wg     sync.WaitGroup
}

func NewMailer(sender Sender, from string) (*Mailer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	return &Mailer{sender: sender, engine: engine, from: from}, nil
}

func (m *Mailer) Welcome(u *domain.User) {
	m.dispatch(KindWelcome, u.Email, "Welcome to PawMart", map[string]any{
		"Name": u.Name,
		"Role": string(u.Role),
	})
}

func (m *Mailer) OrderPlaced(o *domain.Order) {
	m.dispatch(KindOrderPlaced, o.BuyerEmail, "Order Confirmation - PawMart", map[string]any{
		"Name":     o.BuyerName,
		"OrderID":  o.ID,
		"Product":  o.ProductName,
		"Price":    o.Price,
		"Quantity": o.Quantity,
		"Total":    o.Total,
		"Address":  o.Address,
		"Phone":    o.Phone,
	})
}

func (m *Mailer) OrderStatusChanged(o *domain.Order) {
	m.dispatch(KindOrderStatus, o.BuyerEmail, "Your PawMart order is "+string(o.Status), map[string]any{
		"Name":    o.BuyerName,
		"OrderID": o.ID,
		"Product": o.ProductName,
		"Status":  string(o.Status),
	})
}

// Wait blocks until every dispatched message has been handled.
func (m *Mailer) Wait() { m.wg.Wait() }

func (m *Mailer) dispatch(kind, to, subject string, data map[string]any) {
	if m == nil || to == "" {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fields := map[string]any{"kind": kind, "to": to}

		var buf bytes.Buffer
		if err := m.engine.Render(&buf, kind, data); err != nil {
			applog.Error(nil, "mail.render.fail", err, fields)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
		defer cancel()
		msg := Message{
			Kind:    kind,
			From:    m.from,
			To:      to,
			Subject: subject,
			HTML:    buf.String(),
			SentAt:  domain.FormatTime(time.Now()),
		}
		if err := m.sender.Send(ctx, msg); err != nil {
			applog.Error(nil, "mail.send.fail", err, fields)
		}
	}()
}
