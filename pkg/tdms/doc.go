/*
Package tdms reads National Instruments TDMS files without loading channel data up front.

	+-----------+     +-----------+     +-----------+
	| Segment 0 | --> | Segment 1 | --> | Segment n |
	| lead-in   |     | lead-in   |     | lead-in   |
	| metadata  |     | metadata? |     | metadata? |
	| raw data  |     | raw data  |     | raw data  |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Discover groups, channels and properties by scanning segment lead-ins and metadata
- Record where each channel's values live (contiguous or interleaved chunks)
- Decode arbitrary row ranges of a channel on demand through io.ReaderAt

🔄 Flow:
1. Open scans every segment and builds per-channel chunk tables
2. Group.Rows gives the row count of the group's tabular view
3. Channel.Read decodes [start, start+count) reading only the bytes it needs

⚠️ Not supported:
- DAQmx raw data and scalers
- Extended precision (80-bit) channel data
- Index (.tdms_index) files; the data file alone is always sufficient

🔍 Example:

	f, err := tdms.Open("run.tdms")
	if err != nil {
		return err
	}
	defer f.Close()

	for _, g := range f.Groups() {
		for _, ch := range g.Channels() {
			vals, err := ch.Read(0, 100)
			...
		}
	}
*/
package tdms
