// Package push implements the forward, backward, and bidirectional push
// algorithms: local-update relaxations that move residual mass from one
// vertex into an estimate vector plus neighbor residuals, giving a
// single-source (or single-target) solution estimate in time roughly
// proportional to the mass actually touched rather than to the full
// matrix dimension.
package push
