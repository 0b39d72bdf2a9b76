package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/water_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendOTP 发送登录验证码
func (s *Service) SendOTP(to, code string, expireMinutes int) error {
	subject := "登录验证码 - 送水服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #0ea5e9;">登录验证</h2>
        <p>您好，</p>
        <p>您正在登录送水服务平台，验证码为：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>验证码有效期为 %d 分钟，请尽快完成验证。</p>
        <p>如果您没有进行此操作，请忽略此邮件。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, code, expireMinutes)

	return s.sendHTML(to, subject, body)
}

// SendSlotCreated 发送新时段开放通知
func (s *Service) SendSlotCreated(to, name, areaName, date, startTime, endTime string, quantity int) error {
	subject := "新配送时段已开放 - 送水服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #0ea5e9;">新配送时段</h2>
        <p>您好，%s！</p>
        <p>您所在区域 <strong>%s</strong> 新开放了一个配送时段，已为您自动预订：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p style="margin: 4px 0;">日期：%s</p>
            <p style="margin: 4px 0;">时间：%s - %s</p>
            <p style="margin: 4px 0;">预订水量：%d 升</p>
        </div>
        <p>如需取消或加量，请在截止时间前在应用内操作。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, name, areaName, date, startTime, endTime, quantity)

	return s.sendHTML(to, subject, body)
}

// SendDeliveryResult 发送配送结果通知
func (s *Service) SendDeliveryResult(to, name, date string, delivered bool) error {
	subject := "配送结果通知 - 送水服务平台"
	result := "已送达，感谢您的使用！"
	if !delivered {
		result = "本次未能完成配送，给您带来不便深表歉意。"
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #0ea5e9;">配送结果</h2>
        <p>您好，%s！</p>
        <p>您 %s 的送水订单：%s</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, name, date, result)

	return s.sendHTML(to, subject, body)
}

// SendExtraDecision 发送加量审批结果通知
func (s *Service) SendExtraDecision(to, name string, quantity int, approved bool) error {
	subject := "加量申请结果 - 送水服务平台"
	result := fmt.Sprintf("您申请的额外 %d 升已获批准。", quantity)
	if !approved {
		result = fmt.Sprintf("您申请的额外 %d 升未获批准。", quantity)
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #0ea5e9;">加量申请结果</h2>
        <p>您好，%s！</p>
        <p>%s</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, name, result)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
