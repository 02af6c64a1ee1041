package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/models"
)

// EmailService sends customer notifications over SMTP. All content is plain
// text Vietnamese.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SetConfig swaps the SMTP settings at runtime.
func (s *EmailService) SetConfig(cfg *config.EmailConfig) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
}

// SendOrderConfirmation sends the post-checkout confirmation with the item
// list and total.
func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	subject := fmt.Sprintf("Xác nhận đơn hàng %s", order.OrderNo)
	var b strings.Builder
	fmt.Fprintf(&b, "Cảm ơn bạn đã đặt hàng tại Purin Order!\n\n")
	fmt.Fprintf(&b, "Mã đơn hàng: %s\n", order.OrderNo)
	fmt.Fprintf(&b, "Trạng thái thanh toán: %s\n\n", order.PaymentStatus)
	b.WriteString("Sản phẩm:\n")
	for _, item := range order.Items {
		line := fmt.Sprintf("- %s", item.ProductName)
		if item.Variant != "" {
			line += fmt.Sprintf(" (%s)", item.Variant)
		}
		line += fmt.Sprintf(" x%d: %s đ\n", item.Quantity, item.Price.String())
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\nTổng cộng: %s đ\n", order.TotalPrice.String())
	if !order.DiscountAmount.Decimal.IsZero() {
		fmt.Fprintf(&b, "Đã giảm: %s đ (mã %s)\n", order.DiscountAmount.String(), order.DiscountCode)
	}
	b.WriteString("\nBạn có thể tra cứu đơn hàng bằng mã đơn và số điện thoại đặt hàng.")
	return s.sendTextEmail(toEmail, subject, b.String())
}

// SendOrderStatusUpdate notifies the customer that one status field changed.
func (s *EmailService) SendOrderStatusUpdate(toEmail string, order *models.Order, field, newValue string) error {
	label := "Trạng thái thanh toán"
	if field == "order_progress" {
		label = "Trạng thái đơn hàng"
	}
	subject := fmt.Sprintf("Cập nhật đơn hàng %s", order.OrderNo)
	var b strings.Builder
	fmt.Fprintf(&b, "Đơn hàng %s vừa được cập nhật.\n\n", order.OrderNo)
	fmt.Fprintf(&b, "%s: %s\n", label, newValue)
	if order.TrackingCode != "" {
		fmt.Fprintf(&b, "Đơn vị vận chuyển: %s\nMã vận đơn: %s\n", order.ShippingProvider, order.TrackingCode)
	}
	b.WriteString("\nBạn có thể tra cứu đơn hàng bằng mã đơn và số điện thoại đặt hàng.")
	return s.sendTextEmail(toEmail, subject, b.String())
}

// SendCustomEmail sends an arbitrary message, used for the SMTP test button.
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Purin Order - thư kiểm tra SMTP"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "Cấu hình SMTP của Purin Order đang hoạt động bình thường."
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	return transmit(client, auth, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	return transmit(client, auth, from, to, msg)
}

func transmit(client *smtp.Client, auth smtp.Auth, from string, to []string, msg []byte) error {
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
