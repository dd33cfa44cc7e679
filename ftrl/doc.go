// Package ftrl implements online binary and multinomial classification
// with the FTRL-Proximal algorithm and the hashing trick.
//
// Every feature value is hashed together with its column name into a
// fixed bin space, so models train on frames of any column mix (bools,
// ints, floats, strings) without preprocessing and without growing with
// the vocabulary. Training is online: repeated Fit calls accumulate onto
// the same weights, and rows within a call are processed in parallel.
//
//	model, err := ftrl.New(ftrl.WithNBins(1 << 20))
//	if err != nil {
//		...
//	}
//	if err := model.Fit(X, y); err != nil {
//		...
//	}
//	probs, err := model.Predict(X)
//
// Models serialize with MarshalBinary/UnmarshalBinary (and through
// model.SaveModel); a round trip restores the accumulators exactly, so a
// loaded model predicts bit-identically.
package ftrl
