package notify

import (
	"fmt"

	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/model"
	"gopkg.in/gomail.v2"
)

// Mailer 邮件通知
type Mailer struct {
	host    string
	port    int
	user    string
	pass    string
	sender  string
	enabled bool
}

// NewMailer 创建邮件通知
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		host:    cfg.Host,
		port:    cfg.Port,
		user:    cfg.User,
		pass:    cfg.Password,
		sender:  cfg.Sender,
		enabled: cfg.Enabled,
	}
}

// SendPledgeReminder 发送认捐到期提醒
func (m *Mailer) SendPledgeReminder(user *model.User, campaign *model.Campaign, pledge *model.Pledge) error {
	if !m.enabled {
		return nil
	}

	body := fmt.Sprintf(
		"您好 %s，\n\n您对活动「%s」认捐的 %.2f 元将于 %s 到期，请及时兑现。\n\n感谢您的支持！",
		user.Name, campaign.Title, pledge.Amount, pledge.PledgeDate.Format("2006-01-02"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", fmt.Sprintf("认捐到期提醒：%s", campaign.Title))
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}
