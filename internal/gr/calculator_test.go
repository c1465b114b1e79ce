package gr_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/gr/grmock"
	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

var _ = Describe("Calculator", func() {
	var calc *gr.Calculator

	BeforeEach(func() {
		calc = gr.Default()
	})

	Context("flat spacetime", func() {
		It("has vanishing curvature at every stage", func() {
			m := minkowski()
			res, err := calc.Compute(context.Background(), m)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Christoffel.IsZero()).To(BeTrue())
			Expect(res.Riemann.IsZero()).To(BeTrue())
			Expect(res.Ricci.IsZero()).To(BeTrue())
			Expect(res.RicciScalar.IsZero()).To(BeTrue())
			Expect(res.Einstein.IsZero()).To(BeTrue())
		})
	})

	Context("FLRW", func() {
		t := sym.S("t")
		a := sym.Func("a", t)
		ad := a.Diff("t")
		add := ad.Diff("t")

		It("produces a diagonal nonzero Einstein tensor", func() {
			g, err := calc.EinsteinFromScratch(bianchiI())
			Expect(err).NotTo(HaveOccurred())
			Expect(g.IsZero()).To(BeFalse())
			g.Each(func(i tensor.Index, e sym.Expr) {
				if i[0] != i[1] {
					Expect(e.IsZero()).To(BeTrue(), "G%v = %s", i, e)
				}
			})
		})

		It("matches the Friedmann equations", func() {
			g, err := calc.EinsteinFromScratch(flrw())
			Expect(err).NotTo(HaveOccurred())
			wantTT := sym.N(3).Mul(ad.PowInt(2)).Div(a.PowInt(2))
			wantXX := sym.N(2).Mul(a).Mul(add).Add(ad.PowInt(2)).Neg()
			Expect(g.At(0, 0).Equal(wantTT)).To(BeTrue(), "G_tt = %s", g.At(0, 0))
			Expect(g.At(1, 1).Equal(wantXX)).To(BeTrue(), "G_xx = %s", g.At(1, 1))
		})

		It("deduplicates identical field equations", func() {
			g, err := calc.EinsteinFromScratch(flrw())
			Expect(err).NotTo(HaveOccurred())
			zero := tensor.Build(2, func(tensor.Index) sym.Expr { return sym.Expr{} })
			eqs, err := calc.EinsteinEquations(g, zero)
			Expect(err).NotTo(HaveOccurred())
			Expect(eqs).To(HaveLen(2))
		})
	})

	Context("field equations", func() {
		It("is empty when G equals 8πG·T everywhere", func() {
			g, err := calc.EinsteinFromScratch(bianchiI())
			Expect(err).NotTo(HaveOccurred())
			coupling := sym.MulOf(sym.N(8), sym.Pi(), gr.NewtonG)
			stress := g.Map(func(e sym.Expr) sym.Expr { return e.Div(coupling) })
			eqs, err := calc.EinsteinEquations(g, stress)
			Expect(err).NotTo(HaveOccurred())
			Expect(eqs).To(BeEmpty())
		})

		It("rejects tensors that are not rank 2", func() {
			chris, err := calc.Christoffel(minkowski())
			Expect(err).NotTo(HaveOccurred())
			_, err = calc.EinsteinEquations(chris, chris)
			Expect(err).To(MatchError(gr.ErrShape))
		})
	})

	Context("coordinate permutation", func() {
		DescribeTable("leaves the Ricci scalar unchanged",
			func(build func() *metric.Metric, perm []int) {
				m := build()
				p, err := m.Permute(perm)
				Expect(err).NotTo(HaveOccurred())

				r1, err := calc.Compute(context.Background(), m)
				Expect(err).NotTo(HaveOccurred())
				r2, err := calc.Compute(context.Background(), p)
				Expect(err).NotTo(HaveOccurred())
				Expect(r2.RicciScalar.Equal(r1.RicciScalar)).To(BeTrue(),
					"%s != %s", r2.RicciScalar, r1.RicciScalar)
			},
			Entry("bianchi I", bianchiI, []int{2, 0, 3, 1}),
			Entry("static spherical", staticSpherical, []int{3, 2, 1, 0}),
		)
	})

	Context("index gymnastics", func() {
		DescribeTable("raising then lowering is the identity",
			func(build func() *metric.Metric, axis int) {
				m := build()
				tt := symbolic("T")
				up, err := calc.RaiseIndex(tt, m, axis)
				Expect(err).NotTo(HaveOccurred())
				down, err := calc.LowerIndex(up, m, axis)
				Expect(err).NotTo(HaveOccurred())
				Expect(down.Equal(tt)).To(BeTrue())
			},
			Entry("flrw default axis", flrw, gr.DefaultAxis),
			Entry("schwarzschild axis 0", schwarzschild, 0),
			Entry("schwarzschild default axis", schwarzschild, gr.DefaultAxis),
		)

		It("round trips through a non-diagonal metric", func() {
			m, err := metric.FromRows("boosted", [][]string{
				{"-1", "v", "0", "0"},
				{"v", "1", "0", "0"},
				{"0", "0", "1", "0"},
				{"0", "0", "0", "1"},
			}, []string{"t", "x", "y", "z"})
			Expect(err).NotTo(HaveOccurred())
			tt := symbolic("S")
			up, err := calc.RaiseIndex(tt, m, 0)
			Expect(err).NotTo(HaveOccurred())
			down, err := calc.LowerIndex(up, m, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(down.Equal(tt)).To(BeTrue())
		})

		It("rejects an axis outside the tensor", func() {
			_, err := calc.RaiseIndex(symbolic("T"), minkowski(), 2)
			Expect(err).To(MatchError(tensor.ErrAxis))
		})
	})

	Context("contracted Bianchi identity", func() {
		DescribeTable("the Einstein tensor is divergence free",
			func(build func() *metric.Metric) {
				m := build()
				res, err := gr.Default(gr.WithBianchi()).Compute(context.Background(), m)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Bianchi).NotTo(BeNil())
				Expect(res.Bianchi.IsZero()).To(BeTrue())
			},
			Entry("bianchi I", bianchiI),
			Entry("static spherical", staticSpherical),
		)
	})

	Context("Schwarzschild", func() {
		It("has Christoffel symbols symmetric in the lower indices", func() {
			chris, err := calc.Christoffel(schwarzschild())
			Expect(err).NotTo(HaveOccurred())
			chris.Each(func(i tensor.Index, e sym.Expr) {
				Expect(e.Equal(chris.At(i[0], i[2], i[1]))).To(BeTrue())
			})
			Expect(chris.IsZero()).To(BeFalse())
		})

		It("is Ricci flat with Kretschmann scalar 48M²/r⁶", func() {
			res, err := gr.Default(gr.WithKretschmann()).Compute(context.Background(), schwarzschild())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Riemann.IsZero()).To(BeFalse())
			Expect(res.Ricci.IsZero()).To(BeTrue())
			Expect(res.Einstein.IsZero()).To(BeTrue())
			Expect(res.Kretschmann).NotTo(BeNil())
			want := sym.MustParse("48*M^2/r^6")
			Expect(res.Kretschmann.Equal(want)).To(BeTrue(), "K = %s", res.Kretschmann)
		})
	})

	Context("de Sitter", func() {
		It("has constant Ricci scalar 12/l²", func() {
			m := deSitter()
			res, err := calc.Compute(context.Background(), m)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RicciScalar.Equal(sym.MustParse("12/l^2"))).To(BeTrue(), "R = %s", res.RicciScalar)
			res.Ricci.Each(func(i tensor.Index, e sym.Expr) {
				want := sym.MustParse("3/l^2").Mul(m.At(i[0], i[1]))
				Expect(e.Equal(want)).To(BeTrue(), "R%v = %s", i, e)
			})
		})
	})

	Context("pipeline", func() {
		It("records a timing for every stage", func() {
			res, err := gr.Default(gr.WithBianchi(), gr.WithKretschmann()).Compute(context.Background(), flrw())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Timings).To(HaveLen(len(gr.Stages)))
			for i, tm := range res.Timings {
				Expect(tm.Stage).To(Equal(gr.Stages[i]))
			}
			out, ok := res.Stage(gr.StageRicciScalar)
			Expect(ok).To(BeTrue())
			Expect(out.Rank()).To(Equal(0))
		})

		It("leaves optional stages out unless requested", func() {
			res, err := calc.Compute(context.Background(), minkowski())
			Expect(err).NotTo(HaveOccurred())
			_, ok := res.Stage(gr.StageKretschmann)
			Expect(ok).To(BeFalse())
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := calc.Compute(ctx, minkowski())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("rejects inputs of the wrong rank", func() {
			_, err := calc.Ricci(tensor.Build(2, func(tensor.Index) sym.Expr { return sym.Expr{} }))
			Expect(err).To(MatchError(gr.ErrShape))
		})

		It("parses stage names", func() {
			s, err := gr.ParseStage("ricci-scalar")
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(gr.StageRicciScalar))
			_, err = gr.ParseStage("torsion")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a mocked algebra", func() {
		var (
			ctrl *gomock.Controller
			alg  *grmock.MockAlgebra
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			alg = grmock.NewMockAlgebra(ctrl)
		})

		It("propagates inversion failures", func() {
			alg.EXPECT().Invert(gomock.Any()).Return(nil, sym.ErrSingular)
			_, err := gr.NewCalculator(alg).EinsteinFromScratch(minkowski())
			Expect(err).To(MatchError(sym.ErrSingular))
		})

		It("differentiates through the interface", func() {
			engine := sym.Engine{}
			alg.EXPECT().Invert(gomock.Any()).DoAndReturn(engine.Invert)
			alg.EXPECT().Diff(gomock.Any(), gomock.Any()).DoAndReturn(engine.Diff).MinTimes(64)
			alg.EXPECT().Simplify(gomock.Any()).DoAndReturn(engine.Simplify).AnyTimes()
			alg.EXPECT().IsZero(gomock.Any()).DoAndReturn(engine.IsZero).AnyTimes()

			chris, err := gr.NewCalculator(alg).Christoffel(flrw())
			Expect(err).NotTo(HaveOccurred())
			Expect(chris.At(0, 1, 1).Equal(sym.MustParse("a(t)").Mul(sym.Func("a", sym.S("t")).Diff("t")))).To(BeTrue())
		})
	})
})
