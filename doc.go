/*
go-detpost implements the post processing stages that turn a raw object
detection model output tensor into a final de-duplicated list of bounding
boxes with class labels and confidence scores.

The preprocess package performs the letterbox resize and tensor layout
conversion needed before inference, the postprocess package decodes YOLOX
style output tensors and runs non-maximum suppression, and the render
package draws the resulting detections on an image.

The model inference engine itself is not part of this library, the
postprocess package only consumes the engine's raw output buffer.
*/
package detpost
