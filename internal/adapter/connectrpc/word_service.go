package connectrpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	wordpickerv1 "github.com/eslsoft/wordpicker/api/wordpicker/v1"
	"github.com/eslsoft/wordpicker/internal/adapter/mapping"
	"github.com/eslsoft/wordpicker/internal/infrastructure/config"
	"github.com/eslsoft/wordpicker/internal/repository"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

var _ wordpickerv1.WordServiceHandler = (*WordServiceServer)(nil)

type WordServiceServer struct {
	capture    usecase.CaptureUsecase
	reader     usecase.WordReader
	store      usecase.WordStore
	pageSize   int32
	completion config.CompletionConfig
}

func NewWordServiceServer(capture usecase.CaptureUsecase, reader usecase.WordReader, store usecase.WordStore, cfg *config.Config) *WordServiceServer {
	pageSize, err := toInt32("store.page_size", cfg.Store.PageSize)
	if err != nil {
		pageSize = _maxPageSize
	}
	return &WordServiceServer{
		capture:    capture,
		reader:     reader,
		store:      store,
		pageSize:   pageSize,
		completion: cfg.Completion,
	}
}

// CollectWord runs a selection through the capture pipeline. Clients confirm
// with the user before calling, so no confirmation happens here.
func (s *WordServiceServer) CollectWord(ctx context.Context, req *connect.Request[wordpickerv1.CollectWordRequest]) (*connect.Response[wordpickerv1.CollectWordResponse], error) {
	if req.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("request required"))
	}

	result, err := s.capture.Capture(ctx, req.Msg.Text, nil)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbCollectResult(result)), nil
}

func (s *WordServiceServer) ListWords(ctx context.Context, req *connect.Request[wordpickerv1.ListWordsRequest]) (*connect.Response[wordpickerv1.ListWordsResponse], error) {
	if req.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("request required"))
	}
	msg := req.Msg
	query := &repository.ListWordRecordQuery{
		Pagination: convertPagination(msg.PageNo, msg.PageSize, s.pageSize),
		Filter:     repository.Filter{Filter: msg.GetFilter()},
	}
	items, total, err := s.reader.Search(ctx, query)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}

	pageCount, err := toInt32("page count", usecase.PageCount(total, int(query.PageSize)))
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&wordpickerv1.ListWordsResponse{
		Words:     mapping.ToPbWords(items),
		Total:     total,
		PageNo:    query.PageNo,
		PageCount: pageCount,
	}), nil
}

func (s *WordServiceServer) CountWords(ctx context.Context, _ *connect.Request[wordpickerv1.CountWordsRequest]) (*connect.Response[wordpickerv1.CountWordsResponse], error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&wordpickerv1.CountWordsResponse{Total: total}), nil
}

// GetConfig reports where completions would be sent. The key itself never
// leaves the server.
func (s *WordServiceServer) GetConfig(_ context.Context, _ *connect.Request[wordpickerv1.GetConfigRequest]) (*connect.Response[wordpickerv1.GetConfigResponse], error) {
	return connect.NewResponse(&wordpickerv1.GetConfigResponse{
		CompletionBaseURL: s.completion.BaseURL,
		HasAPIKey:         s.completion.APIKey != "",
	}), nil
}
