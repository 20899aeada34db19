package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/cart"
	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type roomStore interface {
	RateConfig(ctx context.Context, roomID string) (pricing.RateConfig, error)
	ListRoomReservations(ctx context.Context, roomID string) ([]stay.DateRange, error)
	Extras(ctx context.Context) ([]pricing.Extra, error)
}

type Server struct {
	srv        *http.Server
	router     *http.ServeMux
	l          *logger.Logger
	conf       Conf
	rooms      roomStore
	calc       *pricing.Calculator
	aggregator *cart.Aggregator
	carts      *cart.Store
	bManager   *booking.Manager
	boost      *boost.Manager
	now        func() time.Time
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	Currency          string
	Now               func() time.Time
}

// Deps are the services the HTTP API exposes.
type Deps struct {
	Rooms      roomStore
	Calculator *pricing.Calculator
	Aggregator *cart.Aggregator
	Carts      *cart.Store
	Booking    *booking.Manager
	Boost      *boost.Manager
}

func New(ctx context.Context, conf Conf, deps Deps) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	now := conf.Now
	if now == nil {
		now = time.Now
	}

	server := &Server{
		srv:        srv,
		router:     mux,
		l:          conf.L,
		conf:       conf,
		rooms:      deps.Rooms,
		calc:       deps.Calculator,
		aggregator: deps.Aggregator,
		carts:      deps.Carts,
		bManager:   deps.Booking,
		boost:      deps.Boost,
		now:        now,
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
