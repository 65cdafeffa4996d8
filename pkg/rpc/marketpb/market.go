// Package marketpb defines the wire messages and gRPC service
// descriptor for the Market service, hand-authored in the shape
// protoc-gen-go-grpc would generate from a market.proto definition. No
// protoc code-generation step runs in this repository; the messages are
// plain Go structs and the wire codec (registered elsewhere as "json")
// serializes them without protobuf binary framing.
package marketpb

// User mirrors market.User on the wire.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IP    string `json:"ip"`
	Port  uint32 `json:"port"`
	Price uint64 `json:"price"`
}

// RegisterFileRequest is the register_file request message.
type RegisterFileRequest struct {
	User     *User  `json:"user"`
	FileHash string `json:"file_hash"`
}

// CheckHoldersRequest is the check_holders request message.
type CheckHoldersRequest struct {
	FileHash string `json:"file_hash"`
}

// HoldersResponse is the check_holders response message.
type HoldersResponse struct {
	Holders []*User `json:"holders"`
}

// Empty is register_file's response message: no fields.
type Empty struct{}
