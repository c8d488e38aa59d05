package shape

// The normalizer is used off the hot path: once to build the reference
// library, and by callers preparing actual coordinates. The engine itself
// only validates.

// Normalize returns a copy of p centered at its centroid. When rescale is
// set the result is additionally scaled to unit RMS distance from the
// centroid. A set with zero spread is returned centered but unscaled.
func Normalize(p PointSet, rescale bool) PointSet {
	out := p.Clone()
	c := out.Centroid()
	for i := range out {
		out[i] = out[i].Sub(c)
	}
	if rescale {
		if rms := out.RMSRadius(); rms > 0 {
			inv := 1 / rms
			for i := range out {
				out[i] = out[i].Scale(inv)
			}
		}
	}
	return out
}

// PrepareActual builds the engine-convention point set for a set of ligand
// coordinates given relative to the central atom: the central point is
// prepended at the origin and the full set is centered at its centroid and
// scaled to unit RMS radius, matching the normalization of the reference
// library.
func PrepareActual(ligands []Vec3) PointSet {
	full := make(PointSet, 0, len(ligands)+1)
	full = append(full, Vec3{})
	full = append(full, ligands...)
	return Normalize(full, true)
}

// Validate checks a full point set (central point first) for use by the
// engine: coordinates must be finite and the set must span at least two
// distinct directions from its centroid. Antipodal directions count as
// distinct, so a linear arrangement is valid.
func Validate(p PointSet) error {
	for i, v := range p {
		if !v.IsFinite() {
			return &NonFiniteInputError{Index: i}
		}
	}
	if len(p) < 3 {
		return &DegeneratePointSetError{Reason: "fewer than two ligand points"}
	}
	c := p.Centroid()
	const tol = 1e-8
	var first Vec3
	seen := false
	for _, v := range p {
		d := v.Sub(c)
		if d.NormSq() < tol {
			continue
		}
		u := d.Unit()
		if !seen {
			first, seen = u, true
			continue
		}
		if first.Sub(u).NormSq() > tol {
			return nil
		}
	}
	if !seen {
		return &DegeneratePointSetError{Reason: "all points coincide"}
	}
	return &DegeneratePointSetError{Reason: "fewer than two distinct directions"}
}
