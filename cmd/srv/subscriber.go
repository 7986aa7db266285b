package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tixpool-lab/backend/internal/common"
	"github.com/tixpool-lab/backend/internal/domain"
	"github.com/tixpool-lab/backend/internal/model"
	"github.com/tixpool-lab/backend/pkg/kafka"
	"github.com/tixpool-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.loadBase()

	cfg := xcontext.Configs(s.ctx)
	eventTail := domain.NewEventTailDomain()
	s.subscriber = kafka.NewSubscriber(
		"tixpool-subscriber",
		[]string{cfg.Kafka.Addr},
		[]string{model.LotteryEventsTopic},
		eventTail.Subscribe,
	)

	common.RegisterPrometheus()
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		addr := fmt.Sprintf(":%s", cfg.ApiServer.Port)
		if err := http.ListenAndServe(addr, nil); err != nil {
			xcontext.Logger(s.ctx).Errorf("Metrics server stopped: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Tailing %s", model.LotteryEventsTopic)
	s.subscriber.Subscribe(s.ctx)
	return nil
}
