// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobchaja-workers/internal/catalog"
	"jobchaja-workers/internal/common/camunda"
	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/diagnosis"

	evaluatepathway "jobchaja-workers/internal/workers/diagnosis/evaluate-pathway"
	senddiagnosisreport "jobchaja-workers/internal/workers/diagnosis/send-diagnosis-report"
)

const catalogPath = "../../configs/visa-catalog.json"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newEngine(t *testing.T) *diagnosis.Engine {
	t.Helper()
	cat, err := catalog.Load(context.Background(), &catalog.FileSource{Path: catalogPath})
	require.NoError(t, err, "production catalog must load")
	return diagnosis.NewEngine(cat, diagnosis.Config{TopN: 5})
}

type capturedEmail struct {
	to      string
	subject string
	body    string
}

type captureEmailSender struct {
	sent []capturedEmail
}

func (c *captureEmailSender) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	msg := capturedEmail{}
	if len(input.Destination.ToAddresses) > 0 {
		msg.to = input.Destination.ToAddresses[0]
	}
	if input.Message != nil && input.Message.Subject != nil && input.Message.Subject.Data != nil {
		msg.subject = *input.Message.Subject.Data
	}
	if input.Message != nil && input.Message.Body != nil && input.Message.Body.Text != nil && input.Message.Body.Text.Data != nil {
		msg.body = *input.Message.Body.Text.Data
	}
	c.sent = append(c.sent, msg)
	return &ses.SendEmailOutput{}, nil
}

// TestDiagnosisToReportFlow runs the two diagnosis workers back to back the
// way a process instance would: evaluate the pathway first, then hand the
// result to the report worker.
func TestDiagnosisToReportFlow(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	engine := newEngine(t)
	evalHandler := evaluatepathway.NewHandler(
		&evaluatepathway.Config{Timeout: 10 * time.Second},
		engine, nil, log,
	)

	evalOut, err := evalHandler.Execute(ctx, &evaluatepathway.Input{
		UserID:             "e2e-user-1",
		Nationality:        "Vietnam",
		Age:                24,
		EducationLevel:     "학사",
		AvailableFund:      "1000-3000만원",
		FinalGoal:          "장기 취업",
		PriorityPreference: "성공률",
	})
	require.NoError(t, err)
	require.NotNil(t, evalOut.Result)
	require.NotEmpty(t, evalOut.Result.Pathways)

	top := evalOut.Result.Pathways[0]
	assert.NotEmpty(t, top.NameKo)
	assert.NotEmpty(t, top.FeasibilityLabel)
	assert.NotEmpty(t, top.VisaChain)

	// catalog accounting must balance
	meta := evalOut.Result.Meta
	assert.Equal(t, engine.Catalog().Size(),
		meta.TotalPathwaysEvaluated+meta.HardFilteredOut)

	email := &captureEmailSender{}
	reportHandler := senddiagnosisreport.NewHandler(
		&senddiagnosisreport.Config{
			Timeout:      10 * time.Second,
			FromEmail:    "no-reply@jobchaja.com",
			EmailEnabled: true,
		},
		nil, email, nil, log,
	)

	reportOut, err := reportHandler.Execute(ctx, &senddiagnosisreport.Input{
		UserID:  "e2e-user-1",
		Email:   "applicant@example.com",
		Channel: "email",
		Result:  evalOut.Result,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reportOut.ReportID)
	assert.Equal(t, []string{"email"}, reportOut.Channels)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "applicant@example.com", email.sent[0].to)
	assert.Contains(t, email.sent[0].body, top.NameKo)
	assert.Contains(t, email.sent[0].body, top.FeasibilityLabel)
}

// TestEvaluateEmptyResult checks the no-recommendation path end to end: a
// profile every catalog entry rejects still completes with an empty list.
func TestEvaluateEmptyResult(t *testing.T) {
	engine := newEngine(t)
	h := evaluatepathway.NewHandler(
		&evaluatepathway.Config{Timeout: 10 * time.Second},
		engine, nil, logger.NewNoOpLogger(),
	)

	out, err := h.Execute(context.Background(), &evaluatepathway.Input{
		Nationality:        "일본",
		Age:                70,
		EducationLevel:     "고졸 이하",
		AvailableFund:      "300만원 미만",
		FinalGoal:          "단기 취업",
		PriorityPreference: "속도",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)

	assert.Empty(t, out.Result.Pathways)
	assert.Equal(t, engine.Catalog().Size(),
		out.Result.Meta.TotalPathwaysEvaluated+out.Result.Meta.HardFilteredOut)
}

// TestRedisCacheRoundTrip needs a reachable Redis; it is skipped otherwise.
func TestRedisCacheRoundTrip(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: envOr("REDIS_ADDR", "localhost:6379")})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	h := evaluatepathway.NewHandler(
		&evaluatepathway.Config{Timeout: 10 * time.Second, CacheTTL: time.Minute},
		newEngine(t), rdb, logger.NewNoOpLogger(),
	)

	input := &evaluatepathway.Input{
		UserID:             "e2e-cache-user",
		Nationality:        "VN",
		Age:                30,
		EducationLevel:     "석사",
		AvailableFund:      "3000만원 이상",
		FinalGoal:          "영주권",
		PriorityPreference: "성공률",
		SkipCache:          true, // first call bypasses any stale entry
	}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	input.SkipCache = false
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, len(first.Result.Pathways), len(second.Result.Pathways))
}

// TestZeebeWorkerLifecycle needs a reachable Zeebe gateway; skipped otherwise.
// It opens a real job worker for the evaluate task and shuts it down cleanly.
func TestZeebeWorkerLifecycle(t *testing.T) {
	client, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         envOr("ZEEBE_ADDRESS", "localhost:26500"),
		UsePlaintextConnection: true,
		ConnectionTimeout:      3 * time.Second,
	})
	if err != nil {
		t.Skipf("Zeebe broker not available: %v", err)
	}
	defer client.Close()

	healthCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, client.HealthCheck(healthCtx))

	zapLog, err := zap.NewDevelopment()
	require.NoError(t, err)

	handler := evaluatepathway.NewHandler(
		&evaluatepathway.Config{Timeout: 10 * time.Second},
		newEngine(t), nil, logger.NewNoOpLogger(),
	)

	tw := camunda.NewTaskWorker(client.GetClient(), evaluatepathway.TaskType, camunda.WorkerOptions{
		MaxJobsActive: 1,
		Timeout:       10 * time.Second,
	}, handler, zapLog)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	tw.Stop(stopCtx)
}
