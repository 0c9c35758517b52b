package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender отправляет сообщения через Twilio-совместимый REST шлюз.
type SMSSender struct {
	gatewayURL string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewSMSSender создаёт клиента SMS шлюза.
func NewSMSSender(gatewayURL, accountSID, authToken, from string) *SMSSender {
	return &SMSSender{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send отправляет одно SMS.
func (s *SMSSender) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.gatewayURL, s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: не удалось создать запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: запрос к шлюзу не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms: шлюз вернул статус %d: %s", resp.StatusCode, string(payload))
	}

	return nil
}
