package config

import "strings"

// 邮箱授权码，部分邮箱用它代替登录密码
const envSMTPAuthCode = "SMTP_AUTH_CODE"

// SMTP 邮件推送配置；未显式设置 From 时，若登录名是邮箱地址则用作发件人。
type SMTP struct {
	Server   string `yaml:"server" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true" validate:"omitempty,min=1,max=65535"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	From     string `yaml:"from" split_words:"true" validate:"omitempty,email"`
	To       string `yaml:"to" split_words:"true"`
}

func (s *SMTP) Enabled() bool {
	srv := strings.TrimSpace(s.Server)
	from := strings.TrimSpace(s.From)
	to := strings.TrimSpace(s.To)
	return srv != "" && from != "" && to != ""
}

// Recipients 拆分逗号分隔的收件人。
func (s *SMTP) Recipients() []string {
	var out []string
	for _, r := range strings.Split(s.To, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
