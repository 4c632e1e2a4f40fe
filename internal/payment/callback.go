package payment

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/session"
)

// Gateway redirect query parameters. The external payment gateway sends the
// operator back into the app with these set; they must be stripped from the
// URL afterwards (history replace) so a reload does not re-trigger handling.
const (
	paramPayment   = "payment"
	paramOrderID   = "orderId"
	paramErrorCode = "errorCode"
)

// HandleCallback inspects the query parameters of a gateway redirect and
// reacts to them: success schedules a delayed broad resync followed by an
// attempt to re-select the completed order by its code; failure and error
// raise the matching notice. It returns a copy of the query with the gateway
// parameters stripped, and whether a callback was present at all.
func (p *Orchestrator) HandleCallback(ctx context.Context, query url.Values) (url.Values, bool) {
	status := query.Get(paramPayment)
	if status == "" {
		return query, false
	}
	orderCode := query.Get(paramOrderID)
	errorCode := query.Get(paramErrorCode)

	switch status {
	case "success":
		p.notify.Success(session.MsgCompleteSuccess)
		// The gateway's confirmation can land before the backend finishes
		// recording the payment; resync after a short pause.
		go p.resyncAfterCallback(ctx, orderCode)
	case "failed":
		p.notify.Error(msgGatewayFailed)
	case "error":
		msg := msgGatewayError
		if errorCode != "" {
			msg += " (" + errorCode + ")"
		}
		p.notify.Error(msg)
	default:
		p.lg.Warn("unrecognized payment callback", zap.String("status", status))
	}

	cleaned := make(url.Values, len(query))
	for k, vs := range query {
		if k == paramPayment || k == paramOrderID || k == paramErrorCode {
			continue
		}
		cleaned[k] = vs
	}
	return cleaned, true
}

// resyncAfterCallback waits out the callback delay, resyncs everything, and
// re-selects the order whose code matches the redirect, when it still shows
// up in the refreshed list.
func (p *Orchestrator) resyncAfterCallback(ctx context.Context, orderCode string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.cfg.CallbackDelay):
	}

	p.sess.RefreshAll(ctx, session.RefreshOptions{})

	if orderCode == "" {
		return
	}
	for _, o := range p.sess.PendingOrders() {
		if o.Code == orderCode {
			p.sess.SelectOrder(ctx, o.ID)
			return
		}
	}
}
