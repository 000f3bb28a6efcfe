package main

import (
	"log"

	"internvault-backend/pkg/container"
)

// workerConfig holds the slice of application config the worker needs.
type workerConfig struct {
	RedisAddr   string
	SMTPHost    string
	SMTPPort    string
	PaymentFrom string
	NoReplyFrom string
}

func loadWorkerConfig(c *container.Container) *workerConfig {
	cfg := &workerConfig{
		RedisAddr:   c.Config.Redis.Addr,
		SMTPHost:    c.Config.SMTP.Host,
		SMTPPort:    c.Config.SMTP.Port,
		PaymentFrom: c.Config.SMTP.PaymentFrom,
		NoReplyFrom: c.Config.SMTP.NoReplyFrom,
	}

	log.Printf("[Config] Redis: %s, SMTP: %s:%s",
		cfg.RedisAddr, cfg.SMTPHost, cfg.SMTPPort)

	return cfg
}
