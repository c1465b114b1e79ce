package gr_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGR(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "GR Suite")
}
