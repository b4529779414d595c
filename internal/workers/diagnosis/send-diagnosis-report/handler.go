// internal/workers/diagnosis/send-diagnosis-report/handler.go
package senddiagnosisreport

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/common/validation"
	"jobchaja-workers/internal/models"
)

const (
	TaskType = "send-diagnosis-report"
)

var (
	ErrRecipientNotFound = errors.New("RECIPIENT_NOT_FOUND")
	ErrReportSendFailed  = errors.New("REPORT_SEND_FAILED")
	ErrNoResult          = errors.New("diagnosis result is required")
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	db     *sql.DB
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		email:  email,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Result == nil {
		return nil, ErrNoResult
	}

	email, phone, err := h.resolveRecipient(ctx, input)
	if err != nil {
		return nil, err
	}

	channel := input.Channel
	if channel == "" {
		channel = "email"
	}

	var channels []string
	if (channel == "email" || channel == "both") && h.config.EmailEnabled {
		if email == "" || !validation.ValidateEmail(email) {
			return nil, fmt.Errorf("%w: no valid email for recipient", ErrRecipientNotFound)
		}
		if err := h.sendEmail(ctx, email, input.Result); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReportSendFailed, err)
		}
		channels = append(channels, "email")
	}

	if (channel == "sms" || channel == "both") && h.config.SMSEnabled {
		if phone == "" || !validation.ValidatePhone(phone) {
			return nil, fmt.Errorf("%w: no valid phone for recipient", ErrRecipientNotFound)
		}
		if err := h.sendSMS(ctx, phone, input.Result); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReportSendFailed, err)
		}
		channels = append(channels, "sms")
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no delivery channel enabled for %q", ErrReportSendFailed, channel)
	}

	output := &Output{
		ReportID: uuid.New().String(),
		Channels: channels,
		SentAt:   time.Now().UTC(),
	}

	h.logger.Info("diagnosis report sent", map[string]interface{}{
		"reportId": output.ReportID,
		"channels": channels,
	})
	return output, nil
}

// resolveRecipient prefers contact details from the job payload and falls
// back to the users table when only a userId is supplied.
func (h *Handler) resolveRecipient(ctx context.Context, input *Input) (email, phone string, err error) {
	email, phone = input.Email, input.Phone
	if email != "" || phone != "" {
		return email, phone, nil
	}
	if input.UserID == "" {
		return "", "", fmt.Errorf("%w: neither contact details nor userId given", ErrRecipientNotFound)
	}
	if h.db == nil {
		return "", "", fmt.Errorf("%w: recipient lookup unavailable", ErrRecipientNotFound)
	}

	row := h.db.QueryRowContext(ctx,
		`SELECT email, COALESCE(phone, '') FROM users WHERE id = $1`, input.UserID)
	if err := row.Scan(&email, &phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", fmt.Errorf("%w: user %s", ErrRecipientNotFound, input.UserID)
		}
		return "", "", err
	}
	return email, phone, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, result *models.DiagnosisResult) error {
	subject := "비자 경로 진단 결과"
	if len(result.Pathways) > 0 {
		subject = fmt.Sprintf("비자 경로 진단 결과: %s 외 %d건",
			result.Pathways[0].NameKo, len(result.Pathways)-1)
	}

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data:    aws.String(renderEmailBody(result)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, phone string, result *models.DiagnosisResult) error {
	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(renderSMSBody(result)),
	})
	return err
}

// renderEmailBody formats the full Korean report: every recommended pathway
// with its score, label, timeline and next steps.
func renderEmailBody(result *models.DiagnosisResult) string {
	var b strings.Builder

	b.WriteString("비자 경로 진단 결과 안내\n\n")
	if len(result.Pathways) == 0 {
		b.WriteString("현재 조건으로 추천 가능한 비자 경로가 없습니다.\n")
		b.WriteString("목표나 예산 조건을 조정해 다시 진단해 보세요.\n")
		return b.String()
	}

	for i, p := range result.Pathways {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, p.NameKo, p.ID)
		fmt.Fprintf(&b, "   실현 가능성: %s (%d점)\n", p.FeasibilityLabel, p.FinalScore)
		fmt.Fprintf(&b, "   예상 기간: %d개월, 예상 비용: %d원\n", p.EstimatedMonths, p.EstimatedCostWon)
		if len(p.NextSteps) > 0 {
			fmt.Fprintf(&b, "   다음 단계: %s\n", p.NextSteps[0].NameKo)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "평가한 경로 %d건 중 조건에 맞는 %d건을 안내해 드렸습니다.\n",
		result.Meta.TotalPathwaysEvaluated+result.Meta.HardFilteredOut,
		len(result.Pathways))
	return b.String()
}

// renderSMSBody keeps the top recommendation only, SMS length limits apply.
func renderSMSBody(result *models.DiagnosisResult) string {
	if len(result.Pathways) == 0 {
		return "[잡차자] 진단 결과: 현재 조건에 맞는 비자 경로가 없습니다."
	}
	top := result.Pathways[0]
	return fmt.Sprintf("[잡차자] 추천 비자 경로: %s, 실현 가능성 %s (%d점)",
		top.NameKo, top.FeasibilityLabel, top.FinalScore)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrRecipientNotFound) {
		return "RECIPIENT_NOT_FOUND"
	} else if errors.Is(err, ErrReportSendFailed) {
		return "REPORT_SEND_FAILED"
	} else if errors.Is(err, ErrNoResult) {
		return "REPORT_TEMPLATE_INVALID"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
