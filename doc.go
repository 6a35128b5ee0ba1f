// Package ftmeter provides the bookkeeping pieces of a text-classification
// training and evaluation pipeline.
//
// # Sharded Reading
//
// Package shard presents a list of corpus files as one logical byte stream.
// Each parallel worker opens its own cursor and seeks it to a shard:
//
//	c, err := shard.Open([]string{"train.0.txt", "train.1.txt"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Seek(worker, workers); err != nil {
//	    log.Fatal(err)
//	}
//	r, err := c.Current() // wraps to the next file at end of file
//	line, err := r.ReadString('\n')
//
// # Evaluation
//
// Package meter accumulates precision, recall, F1 and AUC over a stream of
// examples:
//
//	m := meter.New()
//	_ = m.Log([]int32{1}, []meter.Prediction{{Score: 0.9, Label: 1}}, meter.MultiLabel)
//	_ = m.WriteSummary(os.Stdout, 1)
//
// # Thread Safety
//
// Neither Cursor nor Meter locks internally. Use one Cursor per goroutine and
// guard a shared Meter with a mutex.
package ftmeter
