// Package alert emails failed punches through AWS SES with the attempted
// record attached as a spreadsheet.
package alert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

const (
	sheetName      = "Sheet1"
	attachmentName = "punch-failure.xlsx"
)

// RawEmailSender is the part of the SES client the emailer needs.
type RawEmailSender interface {
	SendRawEmail(input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

type Emailer struct {
	client    RawEmailSender
	emailTo   string
	emailFrom string
}

func NewEmailer(client RawEmailSender, emailTo string, emailFrom string) *Emailer {
	return &Emailer{client: client, emailTo: emailTo, emailFrom: emailFrom}
}

// Notify emails failures and ignores successes.
func (e *Emailer) Notify(outcome punch.Outcome) {
	if outcome.Succeeded() {
		return
	}
	if err := e.Send(context.Background(), outcome); err != nil {
		log.WithError(err).WithField("cycle", outcome.CycleID).Error("Error when sending punch failure email")
	}
}

// Send emails one failure report.
func (e *Emailer) Send(ctx context.Context, outcome punch.Outcome) error {
	contextLogger := log.WithContext(ctx)

	attachment, err := writeAttachment(outcome)
	if err != nil {
		return fmt.Errorf("build attachment: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", e.emailFrom)
	msg.SetHeader("To", e.emailTo)
	msg.SetHeader("Subject", fmt.Sprintf("Punch failed: %s", outcome.Reason))
	msg.SetBody("text/plain", reportBody(outcome))
	msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	var emailRaw bytes.Buffer
	if _, err := msg.WriteTo(&emailRaw); err != nil {
		return fmt.Errorf("write email: %w", err)
	}

	emailParams := ses.SendRawEmailInput{
		Source:     aws.String(e.emailFrom),
		RawMessage: &ses.RawMessage{Data: emailRaw.Bytes()},
	}
	emailParams.SetDestinations(populateEmailRecipients(e.emailTo))

	if _, err := e.client.SendRawEmail(&emailParams); err != nil {
		return fmt.Errorf("send raw email: %w", err)
	}
	contextLogger.WithField("cycle", outcome.CycleID).Info("punch failure email sent")
	return nil
}

func reportBody(outcome punch.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", outcome.Message)
	fmt.Fprintf(&b, "Cycle: %s\n", outcome.CycleID)
	if outcome.Err != nil {
		fmt.Fprintf(&b, "Error: %v\n", outcome.Err)
	}
	b.WriteString("The attempted attendance record is attached.\n")
	return b.String()
}

func populateEmailRecipients(emailTo string) []*string {
	var emailRecipients []*string
	for _, recipient := range strings.Split(emailTo, ",") {
		if r := strings.TrimSpace(recipient); r != "" {
			emailRecipients = append(emailRecipients, aws.String(r))
		}
	}
	return emailRecipients
}

func writeAttachment(outcome punch.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index := f.NewSheet(sheetName)
	if err := f.SetColWidth(sheetName, "A", "H", 20); err != nil {
		return nil, err
	}

	header := []string{"Cycle", "Reason", "Employee", "Punch In", "Punch Out", "Offsets", "Request", "Response"}
	record := outcome.Record
	row := []string{
		outcome.CycleID,
		string(outcome.Reason),
		record.EmployeeIdentifier,
		record.PunchInDate + " " + record.PunchInTime,
		record.PunchOutDate + " " + record.PunchOutTime,
		record.PunchInTzOffset + " / " + record.PunchOutTzOffset,
		string(outcome.Request),
		string(outcome.Response),
	}

	for i := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, col+"1", header[i]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, col+"2", row[i]); err != nil {
			return nil, err
		}
	}

	boldStyle, err := f.NewStyle(`{"font":{"bold":true}}`)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", boldStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(index)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
