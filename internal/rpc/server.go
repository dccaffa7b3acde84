package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/sim"
)

// Request fields.
const (
	FieldGame   = "game"
	FieldSeed   = "seed"
	FieldTrials = "trials"
	FieldResult = "result"
)

const defaultTrials = 1000

// Service implements SimulatorServer on top of an engine holder.
type Service struct {
	engines   *sim.Holder
	maxTrials int
	log       *logrus.Entry
}

func NewService(engines *sim.Holder, maxTrials int, log *logrus.Entry) *Service {
	if maxTrials <= 0 {
		maxTrials = 10000
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{engines: engines, maxTrials: maxTrials, log: log}
}

// Simulate plays one game. The reply holds the seed used (as a decimal
// string) and the game result under "result".
func (s *Service) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := gameOf(req)
	if err != nil {
		return nil, err
	}
	seed, err := seedOf(req)
	if err != nil {
		return nil, err
	}
	res := s.engines.Get().Simulate(in, sim.NewSeededRNG(seed))

	result, err := toStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSeed:   structpb.NewStringValue(strconv.FormatUint(seed, 10)),
		FieldResult: structpb.NewStructValue(result),
	}}, nil
}

// MonteCarlo repeats one matchup and replies with the summary.
func (s *Service) MonteCarlo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := gameOf(req)
	if err != nil {
		return nil, err
	}
	seed, err := seedOf(req)
	if err != nil {
		return nil, err
	}
	trials, err := s.trialsOf(req)
	if err != nil {
		return nil, err
	}

	sum, err := sim.RunMonteCarlo(ctx, s.engines.Get(), in, trials, seed)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, status.FromContextError(err).Err()
		}
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := toStruct(sum)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func gameOf(req *structpb.Struct) (*roster.GameInput, error) {
	game := req.GetFields()[FieldGame].GetStructValue()
	if game == nil {
		return nil, status.Error(codes.InvalidArgument, "missing game")
	}
	b, err := protojson.Marshal(game)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	in, err := roster.DecodeBytes(b)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return in, nil
}

// seedOf accepts a whole number or a decimal string; absent draws a fresh
// seed.
func seedOf(req *structpb.Struct) (uint64, error) {
	v, ok := req.GetFields()[FieldSeed]
	if !ok {
		return rand.Uint64(), nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, status.Errorf(codes.InvalidArgument, "invalid seed %v", n)
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(k.StringValue, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "invalid seed %q", k.StringValue)
		}
		return n, nil
	default:
		return 0, status.Error(codes.InvalidArgument, "invalid seed")
	}
}

func (s *Service) trialsOf(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()[FieldTrials]
	if !ok {
		return min(defaultTrials, s.maxTrials), nil
	}
	n := v.GetNumberValue()
	if n != math.Trunc(n) || n < 1 || n > float64(s.maxTrials) {
		return 0, status.Errorf(codes.InvalidArgument, "trials must be in [1,%d]", s.maxTrials)
	}
	return int(n), nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	return out, nil
}

// NewRequest builds a request document. A nil seed lets the server pick;
// trials <= 0 leaves the server default.
func NewRequest(in *roster.GameInput, seed *uint64, trials int) (*structpb.Struct, error) {
	game, err := toStruct(in)
	if err != nil {
		return nil, err
	}
	fields := map[string]*structpb.Value{FieldGame: structpb.NewStructValue(game)}
	if seed != nil {
		fields[FieldSeed] = structpb.NewStringValue(strconv.FormatUint(*seed, 10))
	}
	if trials > 0 {
		fields[FieldTrials] = structpb.NewNumberValue(float64(trials))
	}
	return &structpb.Struct{Fields: fields}, nil
}

// LoggingInterceptor logs one line per call.
func LoggingInterceptor(log *logrus.Entry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := log.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if err != nil {
			entry.WithError(err).Warn("rpc failed")
		} else {
			entry.Info("rpc completed")
		}
		return resp, err
	}
}
