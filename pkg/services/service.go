package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type (
	Service interface {
		Init() error
		Run(ctx context.Context)
		Stop()
	}
	Services interface {
		AddService(service ...Service)
		Run(ctx context.Context) error
	}
	Manager struct {
		log      Logger
		services []Service
		signals  chan os.Signal
	}
)

func NewManager(log Logger) Services {
	return &Manager{log: log}
}

func (s *Manager) AddService(service ...Service) {
	s.services = append(s.services, service...)
}

// Run initializes every service in order and runs each in its own goroutine
// until ctx is done or the process is interrupted. If a service fails to
// initialize, the ones already started are stopped and the error is returned.
func (s *Manager) Run(ctx context.Context) error {
	s.log.Info("going to start services")
	for count, service := range s.services {
		if err := service.Init(); err != nil {
			for i := count - 1; i >= 0; i-- {
				s.services[i].Stop()
			}
			return err
		}
		go service.Run(ctx)
	}

	c := s.signals
	if c == nil {
		c = make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(c)
	}

	select {
	case <-c:
	case <-ctx.Done():
	}
	s.stop()
	return nil
}

func (s *Manager) stop() {
	s.log.Info("going to stop")
	for i := len(s.services) - 1; i >= 0; i-- {
		s.services[i].Stop()
	}
}
