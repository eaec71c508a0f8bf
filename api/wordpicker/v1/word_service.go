package wordpickerv1

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"connectrpc.com/connect"
)

const (
	// WordServiceName is the fully-qualified name of the WordService service.
	WordServiceName = "wordpicker.v1.WordService"

	WordServiceCollectWordProcedure = "/wordpicker.v1.WordService/CollectWord"
	WordServiceListWordsProcedure   = "/wordpicker.v1.WordService/ListWords"
	WordServiceCountWordsProcedure  = "/wordpicker.v1.WordService/CountWords"
	WordServiceGetConfigProcedure   = "/wordpicker.v1.WordService/GetConfig"
)

// WordServiceHandler is implemented by servers of wordpicker.v1.WordService.
type WordServiceHandler interface {
	CollectWord(context.Context, *connect.Request[CollectWordRequest]) (*connect.Response[CollectWordResponse], error)
	ListWords(context.Context, *connect.Request[ListWordsRequest]) (*connect.Response[ListWordsResponse], error)
	CountWords(context.Context, *connect.Request[CountWordsRequest]) (*connect.Response[CountWordsResponse], error)
	GetConfig(context.Context, *connect.Request[GetConfigRequest]) (*connect.Response[GetConfigResponse], error)
}

// NewWordServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
// Callers must supply a codec option; messages are not protobuf.
func NewWordServiceHandler(svc WordServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	readOpts := append(slices.Clone(opts), connect.WithIdempotency(connect.IdempotencyNoSideEffects))
	collectWord := connect.NewUnaryHandler(WordServiceCollectWordProcedure, svc.CollectWord, opts...)
	listWords := connect.NewUnaryHandler(WordServiceListWordsProcedure, svc.ListWords, readOpts...)
	countWords := connect.NewUnaryHandler(WordServiceCountWordsProcedure, svc.CountWords, readOpts...)
	getConfig := connect.NewUnaryHandler(WordServiceGetConfigProcedure, svc.GetConfig, readOpts...)

	return "/" + WordServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case WordServiceCollectWordProcedure:
			collectWord.ServeHTTP(w, r)
		case WordServiceListWordsProcedure:
			listWords.ServeHTTP(w, r)
		case WordServiceCountWordsProcedure:
			countWords.ServeHTTP(w, r)
		case WordServiceGetConfigProcedure:
			getConfig.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// WordServiceClient is a client for wordpicker.v1.WordService.
type WordServiceClient interface {
	CollectWord(context.Context, *connect.Request[CollectWordRequest]) (*connect.Response[CollectWordResponse], error)
	ListWords(context.Context, *connect.Request[ListWordsRequest]) (*connect.Response[ListWordsResponse], error)
	CountWords(context.Context, *connect.Request[CountWordsRequest]) (*connect.Response[CountWordsResponse], error)
	GetConfig(context.Context, *connect.Request[GetConfigRequest]) (*connect.Response[GetConfigResponse], error)
}

// NewWordServiceClient constructs a client for the service at baseURL, e.g.
// http://localhost:8080.
func NewWordServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) WordServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &wordServiceClient{
		collectWord: connect.NewClient[CollectWordRequest, CollectWordResponse](httpClient, baseURL+WordServiceCollectWordProcedure, opts...),
		listWords:   connect.NewClient[ListWordsRequest, ListWordsResponse](httpClient, baseURL+WordServiceListWordsProcedure, opts...),
		countWords:  connect.NewClient[CountWordsRequest, CountWordsResponse](httpClient, baseURL+WordServiceCountWordsProcedure, opts...),
		getConfig:   connect.NewClient[GetConfigRequest, GetConfigResponse](httpClient, baseURL+WordServiceGetConfigProcedure, opts...),
	}
}

type wordServiceClient struct {
	collectWord *connect.Client[CollectWordRequest, CollectWordResponse]
	listWords   *connect.Client[ListWordsRequest, ListWordsResponse]
	countWords  *connect.Client[CountWordsRequest, CountWordsResponse]
	getConfig   *connect.Client[GetConfigRequest, GetConfigResponse]
}

func (c *wordServiceClient) CollectWord(ctx context.Context, req *connect.Request[CollectWordRequest]) (*connect.Response[CollectWordResponse], error) {
	return c.collectWord.CallUnary(ctx, req)
}

func (c *wordServiceClient) ListWords(ctx context.Context, req *connect.Request[ListWordsRequest]) (*connect.Response[ListWordsResponse], error) {
	return c.listWords.CallUnary(ctx, req)
}

func (c *wordServiceClient) CountWords(ctx context.Context, req *connect.Request[CountWordsRequest]) (*connect.Response[CountWordsResponse], error) {
	return c.countWords.CallUnary(ctx, req)
}

func (c *wordServiceClient) GetConfig(ctx context.Context, req *connect.Request[GetConfigRequest]) (*connect.Response[GetConfigResponse], error) {
	return c.getConfig.CallUnary(ctx, req)
}
