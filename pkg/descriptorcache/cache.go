// Package descriptorcache resolves serialized file descriptor protos
// into linked protoreflect.FileDescriptor values, enforcing that a
// file's dependencies are already present before the file itself is
// inserted.
package descriptorcache

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/arrowarc/protoarrow/pkg/protoarrow"
)

// Cache holds linked file descriptors keyed by their declared name
// (the "name" field of the FileDescriptorProto, e.g. "my/file.proto").
// It performs unsynchronized map writes: a single Cache must not be
// populated from more than one goroutine at a time. Once population
// is complete, reads (Insert of an already-present name, FindMessage,
// CreateForMessage) are safe to share across goroutines, since the
// underlying protoreflect values never change after construction.
type Cache struct {
	files map[string]protoreflect.FileDescriptor
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{files: make(map[string]protoreflect.FileDescriptor)}
}

// Insert links fdp against the files already in the cache and adds
// the result. Every entry in fdp.GetDependency() must already be
// present by name; otherwise Insert returns UnresolvedDependencyError.
// Re-inserting a file whose name is already cached is a no-op: the
// first inserted copy wins and fdp is not re-linked.
func (c *Cache) Insert(fdp *descriptorpb.FileDescriptorProto) error {
	name := fdp.GetName()
	if _, exists := c.files[name]; exists {
		return nil
	}

	for _, dep := range fdp.GetDependency() {
		if _, ok := c.files[dep]; !ok {
			return &UnresolvedDependencyError{File: name, Dependency: dep}
		}
	}

	resolver, err := c.resolver()
	if err != nil {
		return err
	}
	fd, err := protodesc.NewFile(fdp, resolver)
	if err != nil {
		return err
	}
	c.files[name] = fd
	return nil
}

// resolver builds a throwaway protoregistry.Files containing every
// file currently in the cache. protoregistry.Files already implements
// protodesc.Resolver (FindFileByPath, FindDescriptorByName), so
// there's no need for the cache itself to implement that interface —
// it only needs to hand protodesc.NewFile something that does.
func (c *Cache) resolver() (*protoregistry.Files, error) {
	files := new(protoregistry.Files)
	for _, fd := range c.files {
		if err := files.RegisterFile(fd); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// FindMessage looks up a fully-qualified message name across every
// file currently in the cache.
func (c *Cache) FindMessage(fullName protoreflect.FullName) (protoreflect.MessageDescriptor, error) {
	for _, fd := range c.files {
		if md := findMessageIn(fd.Messages(), fullName); md != nil {
			return md, nil
		}
	}
	return nil, &MessageNotFoundError{FullName: string(fullName)}
}

func findMessageIn(msgs protoreflect.MessageDescriptors, fullName protoreflect.FullName) protoreflect.MessageDescriptor {
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		if md.FullName() == fullName {
			return md
		}
		if nested := findMessageIn(md.Messages(), fullName); nested != nil {
			return nested
		}
	}
	return nil
}

// CreateForMessage is the cache's entry point: it takes a list of
// serialized FileDescriptorProto messages in dependents-first caller
// order (e.g. [dependent, dependency]) and consumes them in reverse,
// so that each file's dependencies are already cached by the time the
// file itself is inserted. fullName is then located in the
// last-processed file only — the first element of serialized, i.e.
// the file the caller cares about — not searched across the whole
// cache. mem may be nil, in which case the handler uses Arrow's
// default Go allocator.
func (c *Cache) CreateForMessage(fullName protoreflect.FullName, serialized [][]byte, mem memory.Allocator) (*protoarrow.MessageHandler, error) {
	if len(serialized) == 0 {
		return nil, &MessageNotFoundError{FullName: string(fullName)}
	}

	var targetFile string
	for i := len(serialized) - 1; i >= 0; i-- {
		fdp := &descriptorpb.FileDescriptorProto{}
		if err := proto.Unmarshal(serialized[i], fdp); err != nil {
			return nil, err
		}
		if err := c.Insert(fdp); err != nil {
			return nil, err
		}
		if i == 0 {
			targetFile = fdp.GetName()
		}
	}

	fd, ok := c.files[targetFile]
	if !ok {
		return nil, &MessageNotFoundError{FullName: string(fullName)}
	}
	md := findMessageIn(fd.Messages(), fullName)
	if md == nil {
		return nil, &MessageNotFoundError{FullName: string(fullName)}
	}
	return protoarrow.NewMessageHandler(md, mem)
}
