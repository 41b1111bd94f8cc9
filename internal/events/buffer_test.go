package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", func() {
	It("keeps messages in fifo order", func() {
		b := newBuffer(4)
		Expect(b.Pop()).To(BeNil())

		b.PushBack(&message{Kind: ProjectMessageKind, Data: []byte("msg1")})
		b.PushBack(&message{Kind: ProjectMessageKind, Data: []byte("msg2")})
		b.PushBack(&message{Kind: CatalogMessageKind, Data: []byte("msg3")})
		Expect(b.Size()).To(Equal(3))

		Expect(b.Pop().Data).To(Equal([]byte("msg1")))
		Expect(b.Pop().Data).To(Equal([]byte("msg2")))
		Expect(b.Size()).To(Equal(1))

		last := b.Pop()
		Expect(last.Kind).To(Equal(CatalogMessageKind))
		Expect(b.Size()).To(Equal(0))
		Expect(b.Pop()).To(BeNil())
	})

	It("wraps around the ring", func() {
		b := newBuffer(2)
		b.PushBack(&message{Data: []byte("msg1")})
		Expect(b.Pop()).NotTo(BeNil())

		b.PushBack(&message{Data: []byte("msg2")})
		b.PushBack(&message{Data: []byte("msg3")})
		Expect(b.Size()).To(Equal(2))
		Expect(b.Pop().Data).To(Equal([]byte("msg2")))
		Expect(b.Pop().Data).To(Equal([]byte("msg3")))
		Expect(b.Dropped()).To(Equal(0))
	})

	It("drops the oldest message when full", func() {
		b := newBuffer(2)
		b.PushBack(&message{Data: []byte("msg1")})
		b.PushBack(&message{Data: []byte("msg2")})
		b.PushBack(&message{Data: []byte("msg3")})

		Expect(b.Size()).To(Equal(2))
		Expect(b.Dropped()).To(Equal(1))
		Expect(b.Pop().Data).To(Equal([]byte("msg2")))
		Expect(b.Pop().Data).To(Equal([]byte("msg3")))
	})

	It("falls back to the default capacity", func() {
		b := newBuffer(0)
		Expect(b.ring).To(HaveLen(defaultBufferSize))
	})
})
