package user

import (
	"github.com/trezcool/tawjih/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose reset tokens can be read back by tests.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			tokens:  tokenGenerator{secretKey: []byte(conf.SecretKey), timeout: conf.PasswordResetTimeoutDelta},
		},
	}
}

// MakeToken exposes the password reset token of `usr` to tests.
func (svc *serviceMock) MakeToken(usr User) (string, error) {
	return svc.tokens.makeToken(usr)
}
