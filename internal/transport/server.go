package transport

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
)

type Server struct {
	grpc *grpc.Server
	lis  net.Listener
}

// StartServer binds the admin gRPC service to port and returns once the
// listener is up; Serve must be called separately to start accepting.
func StartServer(port int, admin AdminServer) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	s := &Server{
		grpc: grpc.NewServer(),
		lis:  lis,
	}
	if admin == nil {
		admin = UnimplementedAdminServer{}
	}
	RegisterAdminServer(s.grpc, admin)
	return s, nil
}

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
