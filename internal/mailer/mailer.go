package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

var ErrNoSender = errors.New("mailer: from address is empty")

// Transport delivers a composed message.
type Transport interface {
	Deliver(ctx context.Context, from string, to []string, msg []byte) error
}

type Config struct {
	From       string
	SenderName string
}

// Mailer sends application emails with the cover letter and resume
// attached.
type Mailer struct {
	cfg       Config
	transport Transport
	now       func() time.Time
}

func New(cfg Config, transport Transport) *Mailer {
	return &Mailer{cfg: cfg, transport: transport, now: time.Now}
}

func (m *Mailer) Send(ctx context.Context, to string, subject string, coverLetterPath string, resumePath string) error {
	msg, err := m.Compose(to, subject, coverLetterPath, resumePath)
	if err != nil {
		return err
	}
	return m.transport.Deliver(ctx, m.cfg.From, []string{to}, msg)
}

// Compose builds the multipart message without sending it.
func (m *Mailer) Compose(to string, subject string, attachments ...string) ([]byte, error) {
	if strings.TrimSpace(m.cfg.From) == "" {
		return nil, ErrNoSender
	}

	var h mail.Header
	h.SetDate(m.now())
	h.SetAddressList("From", []*mail.Address{{Name: m.cfg.SenderName, Address: m.cfg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	th.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := tw.CreatePart(th)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(pw, Body(m.cfg.SenderName)); err != nil {
		return nil, err
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	for _, path := range attachments {
		if path == "" {
			continue
		}
		if err := attach(mw, path); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attach(mw *mail.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var ah mail.AttachmentHeader
	ah.Set("Content-Type", contentType)
	ah.Set("Content-Transfer-Encoding", "base64")
	ah.SetFilename(filepath.Base(path))
	w, err := mw.CreateAttachment(ah)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Close()
}

// Body is the plain-text letter sent with every application.
func Body(senderName string) string {
	return "Dear Hiring Manager,\r\n\r\n" +
		"I am writing to apply for the position at your company. I am confident that my skills " +
		"and experience are a good match for this position, and I am excited about the opportunity " +
		"to work with your team and contribute to the company's success.\r\n\r\n" +
		"Please find my resume and cover letter attached. I look forward to the opportunity to " +
		"discuss my application in further detail.\r\n\r\n" +
		"Thank you for considering my application.\r\n\r\n" +
		"Best Regards,\r\n" + senderName + "\r\n"
}
