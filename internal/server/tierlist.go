package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"acd-tierlist/internal/auth"
	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/scoring"
	"acd-tierlist/internal/service"
	"acd-tierlist/internal/store"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	TierListPath = "/tierlist.v1.TierList/"

	csrfHeader = "X-CSRF-Token"
)

type TierListServer struct {
	svc      *service.TierListService
	sessions *auth.SessionManager
	logger   zerolog.Logger
}

func NewTierListServer(svc *service.TierListService, sessions *auth.SessionManager, logger zerolog.Logger) *TierListServer {
	return &TierListServer{svc: svc, sessions: sessions, logger: logger.With().Str("component", "server").Logger()}
}

// Handler mounts every procedure of the service under TierListPath.
func (s *TierListServer) Handler() (string, http.Handler) {
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithCodec(jsonCharsetCodec{}),
	}
	mux := http.NewServeMux()

	mux.Handle(TierListPath+"Login", connect.NewUnaryHandler(TierListPath+"Login", s.Login, opts...))
	mux.Handle(TierListPath+"Logout", connect.NewUnaryHandler(TierListPath+"Logout", s.Logout, opts...))
	mux.Handle(TierListPath+"ListPlayers", connect.NewUnaryHandler(TierListPath+"ListPlayers", s.ListPlayers, opts...))
	mux.Handle(TierListPath+"GetPlayer", connect.NewUnaryHandler(TierListPath+"GetPlayer", s.GetPlayer, opts...))
	mux.Handle(TierListPath+"KitStandings", connect.NewUnaryHandler(TierListPath+"KitStandings", s.KitStandings, opts...))
	mux.Handle(TierListPath+"Catalog", connect.NewUnaryHandler(TierListPath+"Catalog", s.Catalog, opts...))
	mux.Handle(TierListPath+"SetTier", connect.NewUnaryHandler(TierListPath+"SetTier", s.SetTier, opts...))
	mux.Handle(TierListPath+"AddPlayer", connect.NewUnaryHandler(TierListPath+"AddPlayer", s.AddPlayer, opts...))
	mux.Handle(TierListPath+"RemovePlayer", connect.NewUnaryHandler(TierListPath+"RemovePlayer", s.RemovePlayer, opts...))

	return TierListPath, mux
}

func (s *TierListServer) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	sess, err := s.sessions.Login(req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, s.toConnectError(ctx, "Login", err)
	}
	return connect.NewResponse(&LoginResponse{
		SessionID: sess.ID,
		CSRFToken: sess.CSRFToken,
		ExpiresAt: sess.ExpiresAt,
	}), nil
}

func (s *TierListServer) Logout(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	if id := bearer(req.Header()); id != "" {
		s.sessions.Logout(id)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *TierListServer) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.svc.ListPlayers(ctx, service.Filter{
		Region: req.Msg.Region,
		Kit:    req.Msg.Kit,
		Query:  req.Msg.Query,
	})
	if err != nil {
		return nil, s.toConnectError(ctx, "ListPlayers", err)
	}

	resp := &ListPlayersResponse{Players: players}
	if updated, err := s.svc.LastUpdated(ctx); err == nil {
		resp.LastUpdated = updated
	}
	return connect.NewResponse(resp), nil
}

func (s *TierListServer) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.svc.Player(ctx, req.Msg.ID)
	if err != nil {
		return nil, s.toConnectError(ctx, "GetPlayer", err)
	}
	return connect.NewResponse(&PlayerResponse{Player: *player}), nil
}

func (s *TierListServer) KitStandings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[KitStandingsResponse], error) {
	standings, err := s.svc.KitStandings(ctx)
	if err != nil {
		return nil, s.toConnectError(ctx, "KitStandings", err)
	}
	return connect.NewResponse(&KitStandingsResponse{Standings: standings}), nil
}

func (s *TierListServer) Catalog(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[CatalogResponse], error) {
	resp := &CatalogResponse{}
	for _, t := range domain.Tiers {
		resp.Tiers = append(resp.Tiers, TierInfo{Tier: t, Points: scoring.PointsFor(t)})
	}
	for _, k := range domain.Kits {
		resp.Kits = append(resp.Kits, KitInfo{Kit: k, Name: k.DisplayName()})
	}
	for _, th := range scoring.Thresholds() {
		resp.Ranks = append(resp.Ranks, RankInfo{Rank: th.Rank, MinPoints: th.Min})
	}
	return connect.NewResponse(resp), nil
}

func (s *TierListServer) SetTier(ctx context.Context, req *connect.Request[SetTierRequest]) (*connect.Response[PlayerResponse], error) {
	ctx, token := s.authorize(ctx, req.Header())

	player, err := s.svc.SetTier(ctx, req.Msg.PlayerID, req.Msg.Kit, req.Msg.Tier, token)
	if err != nil {
		return nil, s.toConnectError(ctx, "SetTier", err)
	}
	return connect.NewResponse(&PlayerResponse{Player: *player}), nil
}

func (s *TierListServer) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[AddPlayerResponse], error) {
	ctx, token := s.authorize(ctx, req.Header())

	id, err := s.svc.AddPlayer(ctx, domain.PlayerDraft{
		Name:   req.Msg.Name,
		Region: req.Msg.Region,
		Tiers:  req.Msg.Tiers,
	}, token)
	if err != nil {
		return nil, s.toConnectError(ctx, "AddPlayer", err)
	}
	return connect.NewResponse(&AddPlayerResponse{ID: id}), nil
}

func (s *TierListServer) RemovePlayer(ctx context.Context, req *connect.Request[RemovePlayerRequest]) (*connect.Response[emptypb.Empty], error) {
	ctx, token := s.authorize(ctx, req.Header())

	if err := s.svc.RemovePlayer(ctx, req.Msg.PlayerID, token); err != nil {
		return nil, s.toConnectError(ctx, "RemovePlayer", err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// authorize returns the anti-forgery token to hand to the store, or "" when
// the caller is not a live admin session presenting its own token. On success
// the admin name is attached to the request logger as the actor.
func (s *TierListServer) authorize(ctx context.Context, h http.Header) (context.Context, string) {
	sess, ok := s.sessions.Verify(bearer(h), h.Get(csrfHeader))
	if !ok {
		return ctx, ""
	}

	base := zerolog.Ctx(ctx)
	if base.GetLevel() == zerolog.Disabled {
		base = &s.logger
	}
	l := base.With().Str("actor", sess.Username).Logger()
	return l.WithContext(ctx), sess.CSRFToken
}

func bearer(h http.Header) string {
	v := h.Get("Authorization")
	if len(v) > 7 && strings.EqualFold(v[:7], "Bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}

// toConnectError logs the full error and returns a generic one to the client.
func (s *TierListServer) toConnectError(ctx context.Context, procedure string, err error) *connect.Error {
	var code connect.Code
	var msg string

	switch {
	case errors.Is(err, store.ErrUnauthorized):
		code, msg = connect.CodePermissionDenied, "not allowed"
	case errors.Is(err, store.ErrPlayerNotFound):
		code, msg = connect.CodeNotFound, "player not found"
	case errors.Is(err, store.ErrInvalidKit):
		code, msg = connect.CodeInvalidArgument, "invalid kit"
	case errors.Is(err, store.ErrInvalidTier):
		code, msg = connect.CodeInvalidArgument, "invalid tier"
	case errors.Is(err, store.ErrInvalidPlayer):
		code, msg = connect.CodeInvalidArgument, "invalid player"
	case errors.Is(err, store.ErrStorageUnavailable), errors.Is(err, store.ErrCorruptRoot):
		code, msg = connect.CodeUnavailable, "storage unavailable"
	case errors.Is(err, auth.ErrInvalidCredentials):
		code, msg = connect.CodeUnauthenticated, "invalid credentials"
	case errors.Is(err, auth.ErrRateLimited):
		code, msg = connect.CodeResourceExhausted, "too many attempts"
	default:
		code, msg = connect.CodeInternal, "internal error"
	}

	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &s.logger
	}
	l.Warn().Err(err).Str("procedure", procedure).Str("code", code.String()).Msg("request failed")

	return connect.NewError(code, errors.New(msg))
}
