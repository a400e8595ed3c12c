package notifier_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/notifier"
)

func testData() (*models.Kunde, *models.Bestellung) {
	kunde := &models.Kunde{ID: 3, Nachname: "Alpha", Vorname: "Anna", Email: "alpha@example.com", Telefon: "+4972112345"}
	b := &models.Bestellung{
		ID:      7,
		KundeID: 3,
		Bestellpositionen: []models.Bestellposition{
			{Anzahl: 2, ArtikelID: 11, Artikel: &models.Artikel{ID: 11, Preis: decimal.RequireFromString("10.50")}},
		},
	}
	return kunde, b
}

func TestSMSNotifier(t *testing.T) {
	var form map[string]string
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"username": r.PostForm.Get("username"),
			"to":       r.PostForm.Get("to"),
			"message":  r.PostForm.Get("message"),
			"from":     r.PostForm.Get("from"),
		}
		apiKey = r.Header.Get("apikey")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"SMSMessageData":{"Message":"Sent to 1/1","Recipients":[]}}`))
	}))
	defer server.Close()

	cfg := config.AfricaTalkingConfig{Username: "sandbox", APIKey: "secret", SMSURL: server.URL, SenderID: "SHOP"}
	n := notifier.NewSMSNotifier(cfg, zap.NewNop())

	t.Run("sends the confirmation", func(t *testing.T) {
		kunde, b := testData()
		require.NoError(t, n.BestellungAngelegt(context.Background(), kunde, b))

		assert.Equal(t, "secret", apiKey)
		assert.Equal(t, "sandbox", form["username"])
		assert.Equal(t, "+4972112345", form["to"])
		assert.Equal(t, "SHOP", form["from"])
		assert.Contains(t, form["message"], "#7")
		assert.Contains(t, form["message"], "EUR 21.00")
	})

	t.Run("skips a Kunde without phone", func(t *testing.T) {
		form = nil
		kunde, b := testData()
		kunde.Telefon = ""
		require.NoError(t, n.BestellungAngelegt(context.Background(), kunde, b))
		assert.Nil(t, form)
	})
}

func TestSMSNotifierErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"SMSMessageData":{"Message":"invalid key"}}`))
	}))
	defer server.Close()

	n := notifier.NewSMSNotifier(config.AfricaTalkingConfig{SMSURL: server.URL}, zap.NewNop())
	kunde, b := testData()
	err := n.BestellungAngelegt(context.Background(), kunde, b)
	assert.EqualError(t, err, "SMS API returned non-success status: 401")
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailNotifier(t *testing.T) {
	client := &fakeSES{}
	n := notifier.NewEmailNotifierWithClient(client, "shop@example.com", zap.NewNop())

	kunde, b := testData()
	require.NoError(t, n.BestellungAngelegt(context.Background(), kunde, b))

	require.NotNil(t, client.input)
	assert.Equal(t, "shop@example.com", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"alpha@example.com"}, client.input.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(client.input.Message.Subject.Data), "#7")
	assert.Contains(t, aws.ToString(client.input.Message.Body.Text.Data), "Anna Alpha")
	assert.Contains(t, aws.ToString(client.input.Message.Body.Text.Data), "EUR 21.00")
}

func TestEmailNotifierError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	n := notifier.NewEmailNotifierWithClient(client, "shop@example.com", zap.NewNop())

	kunde, b := testData()
	err := n.BestellungAngelegt(context.Background(), kunde, b)
	assert.ErrorContains(t, err, "throttled")

	assert.Error(t, n.BestellungAngelegt(context.Background(), &models.Kunde{}, b))
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) BestellungAngelegt(context.Context, *models.Kunde, *models.Bestellung) error {
	r.calls++
	return r.err
}

func TestMulti(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("sms down")}
	ok := &recordingNotifier{}

	kunde, b := testData()
	err := notifier.Multi{failing, ok}.BestellungAngelegt(context.Background(), kunde, b)

	assert.EqualError(t, err, "sms down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, notifier.Multi{}.BestellungAngelegt(context.Background(), kunde, b))
}
